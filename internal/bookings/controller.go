package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/activity"
	"boxoffice/internal/events"
	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/selection"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/tickets"
	v "boxoffice/internal/views"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/inflight"
	"boxoffice/pkg/logger"
)

const loginToBook = "Please login to book tickets."

type Controller struct {
	gw        *gateway.Gateway
	cache     cache.Service
	registry  *selection.Registry
	publisher activity.Publisher
	guard     *inflight.Guard
	log       *logger.Logger
}

func NewController(gw *gateway.Gateway, cacheService cache.Service, registry *selection.Registry,
	publisher activity.Publisher, guard *inflight.Guard, log *logger.Logger) *Controller {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if guard == nil {
		guard = inflight.New()
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Controller{
		gw:        gw,
		cache:     cacheService,
		registry:  registry,
		publisher: publisher,
		guard:     guard,
		log:       log,
	}
}

func (ctrl *Controller) events(c *gin.Context) events.Service {
	return events.NewService(ctrl.gw.WithStore(middleware.Store(c)), ctrl.cache, ctrl.log)
}

func (ctrl *Controller) tracker(c *gin.Context, eventID int64) *selection.Tracker {
	return ctrl.registry.For(middleware.SessionID(c), eventID)
}

func eventIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// BookingPage shows the seat map with the running selection
func (ctrl *Controller) BookingPage(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		response.RenderPage(c, http.StatusNotFound, "Book Event", middleware.Links(c), v.ErrorMessage("Event not found."))
		return
	}

	// only one booking page per session keeps a selection
	ctrl.registry.Retain(middleware.SessionID(c), eventID)
	ctrl.renderBooking(c, http.StatusOK, eventID, "")
}

func (ctrl *Controller) renderBooking(c *gin.Context, status int, eventID int64, errMsg string) {
	ctx := c.Request.Context()
	svc := ctrl.events(c)

	event, err := svc.Get(ctx, eventID)
	if err != nil {
		code, msg := http.StatusBadGateway, "Error loading event details."
		if errors.Is(err, events.ErrEventNotFound) {
			code, msg = http.StatusNotFound, "Event not found."
		}
		response.RenderPage(c, code, "Book Event", middleware.Links(c), v.ErrorMessage(msg))
		return
	}

	seats, err := svc.Seats(ctx, eventID)
	if err != nil {
		ctrl.log.WarnContext(ctx, "Failed to load seats", "event_id", eventID, "error", err.Error())
		response.RenderPage(c, http.StatusBadGateway, event.Title, middleware.Links(c),
			events.EventDetails(event), v.ErrorMessage("Error loading seats."))
		return
	}

	tracker := ctrl.tracker(c, eventID)
	pruneUnavailable(tracker, seats)

	response.RenderPage(c, status, "Book: "+event.Title, middleware.Links(c),
		BookingPage(event, seats, tracker, errMsg)...)
}

// pruneUnavailable drops selected seats that were sold since they were picked
func pruneUnavailable(tracker *selection.Tracker, seats []events.Seat) {
	for _, sel := range tracker.Seats() {
		seat, ok := events.FindSeat(seats, sel.ID)
		if !ok || !seat.Selectable() {
			tracker.Toggle(sel)
		}
	}
}

// ToggleSeat adds or removes one seat. Form posts are redirected back to the
// booking page; JSON callers get the new summary.
func (ctrl *Controller) ToggleSeat(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
		return
	}

	var req ToggleRequest
	if err := c.ShouldBind(&req); err != nil {
		if middleware.WantsJSON(c) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
		c.Redirect(http.StatusSeeOther, events.BookingPath(eventID))
		return
	}

	tracker := ctrl.tracker(c, eventID)
	state, err := ctrl.toggle(c, tracker, eventID, req.SeatID)
	if err != nil {
		status, msg := http.StatusBadGateway, "Error loading seats."
		if errors.Is(err, ErrSeatUnavailable) {
			status, msg = http.StatusConflict, "That seat is no longer available."
		}
		if middleware.WantsJSON(c) {
			response.RespondJSON(c, "error", status, msg, nil, err.Error())
			return
		}
		ctrl.renderBooking(c, status, eventID, msg)
		return
	}

	if middleware.WantsJSON(c) {
		response.RespondJSON(c, "success", http.StatusOK, "Selection updated", ToggleResponse{
			SeatID:       req.SeatID,
			Selected:     state.Selected,
			Summary:      state.Summary,
			DisplayTotal: state.Summary.DisplayTotal(),
		}, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, events.BookingPath(eventID))
}

// toggle checks the seat against live availability. Deselecting is always
// allowed so a seat sold meanwhile can still be removed.
func (ctrl *Controller) toggle(c *gin.Context, tracker *selection.Tracker, eventID, seatID int64) (selection.State, error) {
	seats, err := ctrl.events(c).Seats(c.Request.Context(), eventID)
	if err != nil {
		return selection.State{}, err
	}

	seat, ok := events.FindSeat(seats, seatID)
	if !ok {
		return selection.State{}, fmt.Errorf("seat %d: %w", seatID, ErrSeatUnavailable)
	}
	if !tracker.Contains(seatID) && !seat.Selectable() {
		return selection.State{}, fmt.Errorf("seat %s: %w", seat.Label(), ErrSeatUnavailable)
	}
	return tracker.Toggle(seat.Selection()), nil
}

func (ctrl *Controller) Summary(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
		return
	}

	tracker := ctrl.tracker(c, eventID)
	response.RespondJSON(c, "success", http.StatusOK, "Selection retrieved", gin.H{
		"seats":         tracker.Seats(),
		"summary":       tracker.Summary(),
		"display_total": tracker.Summary().DisplayTotal(),
	}, nil)
}

func (ctrl *Controller) ClearSelection(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, navigation.HomePath)
		return
	}

	ctrl.tracker(c, eventID).Clear()
	if middleware.WantsJSON(c) {
		response.RespondJSON(c, "success", http.StatusOK, "Selection cleared", nil, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, events.BookingPath(eventID))
}

// Confirm submits the selection. Anonymous visitors are sent to the login page.
func (ctrl *Controller) Confirm(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, navigation.HomePath)
		return
	}

	if !middleware.CurrentSession(c).Authenticated() {
		if middleware.WantsJSON(c) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, loginToBook, nil, nil)
			return
		}
		c.Redirect(http.StatusSeeOther, navigation.LoginPath)
		return
	}

	tracker := ctrl.tracker(c, eventID)
	svc := NewService(ctrl.gw.WithStore(middleware.Store(c)), ctrl.log)
	actor, requestID := "user:"+middleware.UserID(c), middleware.RequestIDFrom(c)

	// a double-clicked confirm joins the booking already in flight, so the
	// activity below is published once per booking. The shared call may
	// outlive this request and must not read c.
	key := inflight.Key(middleware.SessionID(c), "book", strconv.FormatInt(eventID, 10))
	confirmation, _, err := inflight.DoContext(c.Request.Context(), ctrl.guard, key, func(ctx context.Context) (*Confirmation, error) {
		confirmation, err := svc.Checkout(ctx, tracker, eventID)
		if err != nil {
			return nil, err
		}
		ctrl.publisher.Publish(ctx,
			activity.NewAction(activity.ActionBookTicket, actor,
				fmt.Sprintf("Booked %d seat(s) for event %d: tickets %s",
					len(confirmation.TicketIDs), eventID, JoinIDs(confirmation.TicketIDs))).
				WithRequestID(requestID))
		return confirmation, nil
	})
	if err != nil {
		if gateway.IsSessionExpired(err) {
			_ = c.Error(err)
			return
		}
		status := http.StatusBadRequest
		var netErr *gateway.NetworkError
		if errors.As(err, &netErr) {
			status = http.StatusBadGateway
		}
		msg := "Booking Failed: " + FailureDetail(err)
		if middleware.WantsJSON(c) {
			response.RespondJSON(c, "error", status, msg, nil, nil)
			return
		}
		ctrl.renderBooking(c, status, eventID, msg)
		return
	}

	if middleware.WantsJSON(c) {
		response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed", confirmation, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, confirmation.RedirectTo)
}

// OrderConfirmation shows the tickets named in the query string
func (ctrl *Controller) OrderConfirmation(c *gin.Context) {
	ids := ParseIDs(c.Query("tickets"))

	all, err := tickets.NewService(ctrl.gw.WithStore(middleware.Store(c))).List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if gateway.IsSessionExpired(err) {
			return
		}
		response.RenderPage(c, http.StatusBadGateway, "Booking Confirmed", middleware.Links(c),
			v.Heading("Booking Confirmed!"), v.ErrorMessage("Error loading orders."))
		return
	}

	response.RenderPage(c, http.StatusOK, "Booking Confirmed", middleware.Links(c),
		ConfirmationView(tickets.Filter(all, ids)))
}
