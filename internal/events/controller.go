package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"boxoffice/internal/activity"
	"boxoffice/internal/analytics"
	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	v "boxoffice/internal/views"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/inflight"
	"boxoffice/pkg/logger"
)

type Controller interface {
	// Public pages
	Home(c *gin.Context)
	GetEvent(c *gin.Context)

	// Organizer dashboard
	Dashboard(c *gin.Context)
	CreateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	PreviewSeats(c *gin.Context)
}

// ControllerConfig carries the collaborators shared by every request
type ControllerConfig struct {
	Gateway       *gateway.Gateway
	Cache         cache.Service
	Publisher     activity.Publisher
	Guard         *inflight.Guard
	Logger        *logger.Logger
	MaxUploadSize int64
}

type controller struct {
	cfg ControllerConfig
}

func NewController(cfg ControllerConfig) Controller {
	if cfg.Publisher == nil {
		cfg.Publisher = activity.NopPublisher{}
	}
	if cfg.Guard == nil {
		cfg.Guard = inflight.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetDefault()
	}
	return &controller{cfg: cfg}
}

func (ctrl *controller) service(c *gin.Context) Service {
	return NewService(ctrl.cfg.Gateway.WithStore(middleware.Store(c)), ctrl.cfg.Cache, ctrl.cfg.Logger)
}

func (ctrl *controller) Home(c *gin.Context) {
	events, err := ctrl.service(c).List(c.Request.Context())
	if err != nil {
		ctrl.cfg.Logger.WarnContext(c.Request.Context(), "Failed to load events", "error", err.Error())
		response.RenderPage(c, http.StatusBadGateway, "Upcoming Events", middleware.Links(c),
			v.Heading("Upcoming Events"), v.ErrorMessage("Unable to load events."))
		return
	}

	response.RenderPage(c, http.StatusOK, "Upcoming Events", middleware.Links(c),
		v.Heading("Upcoming Events"), EventsList(events))
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RenderPage(c, http.StatusNotFound, "Event", middleware.Links(c), v.ErrorMessage("Event not found."))
		return
	}

	event, err := ctrl.service(c).Get(c.Request.Context(), eventID)
	if err != nil {
		status, msg := http.StatusBadGateway, "Error loading event details."
		if errors.Is(err, ErrEventNotFound) {
			status, msg = http.StatusNotFound, "Event not found."
		}
		response.RenderPage(c, status, "Event", middleware.Links(c), v.ErrorMessage(msg))
		return
	}

	response.RenderPage(c, http.StatusOK, event.Title, middleware.Links(c), EventDetails(event))
}

func (ctrl *controller) Dashboard(c *gin.Context) {
	var notice string
	if n := c.Query("created"); n != "" {
		notice = fmt.Sprintf("Event created with %s seats!", n)
	} else if c.Query("deleted") != "" {
		notice = "Event deleted."
	}
	ctrl.renderDashboard(c, http.StatusOK, DefaultCreateForm(), notice, "")
}

// renderDashboard draws the organizer page: analytics, owned events and the
// creation form prefilled with form
func (ctrl *controller) renderDashboard(c *gin.Context, status int, form CreateEventRequest, notice, errMsg string) {
	ctx := c.Request.Context()
	gw := ctrl.cfg.Gateway.WithStore(middleware.Store(c))

	// the session is already cleared on expiry, so nothing else is fetched
	summary, err := analytics.NewService(gw, ctrl.cfg.Logger).Panel(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}

	body := []*html.Node{v.Heading("Organizer Dashboard")}
	if notice != "" {
		body = append(body, v.Message(notice))
	}
	if errMsg != "" {
		body = append(body, v.ErrorMessage(errMsg))
	}
	body = append(body, analytics.AnalyticsPanel(summary))

	owned, err := ctrl.service(c).ListOwned(ctx)
	switch {
	case gateway.IsSessionExpired(err):
		_ = c.Error(err)
		return
	case err != nil:
		ctrl.cfg.Logger.WarnContext(ctx, "Failed to load organizer events", "error", err.Error())
		body = append(body, v.ErrorMessage("Unable to load events."))
	default:
		body = append(body, OrganizerEvents(owned))
	}

	body = append(body, CreateEventForm(form))
	response.RenderPage(c, status, "Organizer Dashboard", middleware.Links(c), body...)
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		ctrl.renderDashboard(c, http.StatusBadRequest, req, "", "Please check the event details.")
		return
	}

	upload, problem := ctrl.readUpload(c)
	if problem != "" {
		ctrl.renderDashboard(c, http.StatusBadRequest, req, "", problem)
		return
	}
	req.VenueImage = upload

	// a double submit joins the first create
	svc, actor, requestID := ctrl.service(c), "user:"+middleware.UserID(c), middleware.RequestIDFrom(c)
	key := inflight.Key(middleware.SessionID(c), "create-event", req.Title, req.DateTime)
	created, _, err := inflight.DoContext(c.Request.Context(), ctrl.cfg.Guard, key, func(ctx context.Context) (*CreateEventResponse, error) {
		created, err := svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		ctrl.cfg.Publisher.Publish(ctx,
			activity.NewAction(activity.ActionCreateEvent, actor,
				fmt.Sprintf("Created event %q with %d seats", created.Title, created.SeatsCreated)).
				WithRequestID(requestID))
		return created, nil
	})
	if err != nil {
		if gateway.IsSessionExpired(err) {
			_ = c.Error(err)
			return
		}
		var verr *ValidationError
		var httpErr *gateway.HTTPError
		switch {
		case errors.As(err, &verr):
			ctrl.renderDashboard(c, http.StatusBadRequest, req, "", verr.Message)
		case errors.As(err, &httpErr):
			ctrl.renderDashboard(c, http.StatusBadRequest, req, "", "Failed to create event: "+httpErr.Detail())
		default:
			ctrl.renderDashboard(c, http.StatusBadGateway, req, "", "Failed to create event. Please try again.")
		}
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s?created=%d", navigation.OrganizerPath, created.SeatsCreated))
}

// readUpload returns the optional venue image, bounded by MaxUploadSize.
// A non-empty problem is the message shown above the form.
func (ctrl *controller) readUpload(c *gin.Context) (upload *Upload, problem string) {
	header, err := c.FormFile("venue_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, ""
		}
		return nil, "Unable to read venue image."
	}
	if ctrl.cfg.MaxUploadSize > 0 && header.Size > ctrl.cfg.MaxUploadSize {
		return nil, fmt.Sprintf("Venue image must be smaller than %d MB.", ctrl.cfg.MaxUploadSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return nil, "Unable to read venue image."
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "Unable to read venue image."
	}
	return &Upload{Filename: header.Filename, Data: data}, ""
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ctrl.renderDashboard(c, http.StatusBadRequest, DefaultCreateForm(), "", "Failed to delete event: invalid event id")
		return
	}

	svc, actor, requestID := ctrl.service(c), "user:"+middleware.UserID(c), middleware.RequestIDFrom(c)
	key := inflight.Key(middleware.SessionID(c), "delete-event", strconv.FormatInt(eventID, 10))
	_, _, err = inflight.DoContext(c.Request.Context(), ctrl.cfg.Guard, key, func(ctx context.Context) (struct{}, error) {
		if err := svc.Delete(ctx, eventID); err != nil {
			return struct{}{}, err
		}
		ctrl.cfg.Publisher.Publish(ctx,
			activity.NewAction(activity.ActionDeleteEvent, actor,
				fmt.Sprintf("Deleted event %d", eventID)).
				WithRequestID(requestID))
		return struct{}{}, nil
	})
	if err != nil {
		if gateway.IsSessionExpired(err) {
			_ = c.Error(err)
			return
		}
		detail := err.Error()
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) {
			detail = httpErr.Detail()
		}
		ctrl.renderDashboard(c, http.StatusBadRequest, DefaultCreateForm(), "", "Failed to delete event: "+detail)
		return
	}

	c.Redirect(http.StatusSeeOther, navigation.OrganizerPath+"?deleted=1")
}

// PreviewSeats answers the creation form's live preview
func (ctrl *controller) PreviewSeats(c *gin.Context) {
	rows, _ := strconv.Atoi(c.DefaultQuery("rows", "6"))
	cols, _ := strconv.Atoi(c.DefaultQuery("cols", "10"))
	req := CreateEventRequest{
		PriceVIP:      c.Query("vip"),
		PriceStandard: c.Query("standard"),
		PriceEconomy:  c.Query("economy"),
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat preview computed", Preview(rows, cols, req.Prices()), nil)
}
