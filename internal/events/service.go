package events

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"

	"boxoffice/internal/gateway"
	"boxoffice/internal/shared/constants"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

const (
	eventsPath = "/api/events/"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

// ValidationError is a creation form problem detected before any request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Service interface {
	// Public catalogue
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id int64) (*Event, error)
	Seats(ctx context.Context, id int64) ([]Seat, error)

	// Organizer operations, sent with the session's credential
	ListOwned(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	gw       *gateway.Gateway
	cache    cache.Service
	validate *validator.Validate
	log      *logger.Logger
}

// NewService creates an events service. cacheService may be nil.
func NewService(gw *gateway.Gateway, cacheService cache.Service, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		gw:       gw,
		cache:    cacheService,
		validate: validator.New(),
		log:      log,
	}
}

func eventPath(id int64) string {
	return fmt.Sprintf("%s%d/", eventsPath, id)
}

func (s *service) List(ctx context.Context) ([]Event, error) {
	fetch := func() (interface{}, error) {
		resp, err := s.gw.DoAnonymous(ctx, gateway.Get(eventsPath))
		if err != nil {
			return nil, err
		}
		var events []Event
		if err := gateway.DecodeJSON(resp, &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]Event), nil
	}

	var events []Event
	if err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_EVENTS_LIST, constants.TTL_EVENT_LIST, fetch, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Event, error) {
	fetch := func() (interface{}, error) {
		resp, err := s.gw.DoAnonymous(ctx, gateway.Get(eventPath(id)))
		if err != nil {
			return nil, err
		}
		var event Event
		if err := gateway.DecodeJSON(resp, &event); err != nil {
			if gateway.IsHTTPStatus(err, 404) {
				return nil, ErrEventNotFound
			}
			return nil, err
		}
		return &event, nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.(*Event), nil
	}

	var event Event
	if err := s.cache.GetOrSet(ctx, constants.BuildEventDetailKey(id), constants.TTL_EVENT_DETAIL, fetch, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Seats always goes to the backend: availability must be live
func (s *service) Seats(ctx context.Context, id int64) ([]Seat, error) {
	resp, err := s.gw.DoAnonymous(ctx, gateway.Get(eventPath(id)+"seats/"))
	if err != nil {
		return nil, err
	}

	var seats []Seat
	if err := gateway.DecodeJSON(resp, &seats); err != nil {
		if gateway.IsHTTPStatus(err, 404) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return seats, nil
}

func (s *service) ListOwned(ctx context.Context) ([]Event, error) {
	resp, err := s.gw.Do(ctx, gateway.Get(eventsPath))
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := gateway.DecodeJSON(resp, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *service) Create(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	body, contentType, err := encodeCreateForm(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.gw.Do(ctx, gateway.PostRaw(eventsPath, body, contentType))
	if err != nil {
		return nil, err
	}

	var created CreateEventResponse
	if err := gateway.DecodeJSON(resp, &created); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.LogEventCreated(ctx, created.ID, created.SeatsCreated)
	return &created, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	resp, err := s.gw.Do(ctx, gateway.Delete(eventPath(id)))
	if err != nil {
		return err
	}
	if err := gateway.DecodeJSON(resp, nil); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.log.InfoContext(ctx, "Event deleted", "event_id", id)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		s.log.WarnContext(ctx, "Failed to invalidate event cache", "error", err.Error())
	}
}

func encodeCreateForm(req CreateEventRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"location", req.Location},
		{"date_time", req.DateTime},
		{"seat_rows", strconv.Itoa(req.SeatRows)},
		{"seat_cols", strconv.Itoa(req.SeatCols)},
		{"seat_price_vip", req.PriceVIP},
		{"seat_price_standard", req.PriceStandard},
		{"seat_price_economy", req.PriceEconomy},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to encode form field %s: %w", f.name, err)
		}
	}

	if req.VenueImage != nil && len(req.VenueImage.Data) > 0 {
		part, err := w.CreateFormFile("venue_image", req.VenueImage.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach venue image: %w", err)
		}
		if _, err := part.Write(req.VenueImage.Data); err != nil {
			return nil, "", fmt.Errorf("failed to attach venue image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required.", fe.Field())
	case "min":
		msg = fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
		}
	case "numeric":
		msg = fmt.Sprintf("%s must be a number.", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid.", fe.Field())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
