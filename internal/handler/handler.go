package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"

	"github.com/trainbook/core/internal/config"
	"github.com/trainbook/core/internal/service"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator

	identity     *service.IdentityService
	availability *service.AvailabilityService
	booking      *service.BookingService
	cancel       *service.CancelService
	shifts       *service.ShiftService

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	identity *service.IdentityService,
	availability *service.AvailabilityService,
	booking *service.BookingService,
	cancel *service.CancelService,
	shifts *service.ShiftService,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ru := ru.New()
	uni := ut.New(ru, ru)
	trans, _ := uni.GetTranslator("ru")
	if err := ru_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,

		identity:     identity,
		availability: availability,
		booking:      booking,
		cancel:       cancel,
		shifts:       shifts,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/trainers", func(r chi.Router) {
		r.Post("/", h.RegisterTrainer)

		r.Route("/{trainerID}", func(r chi.Router) {
			r.Use(h.trainerID)

			r.Get("/slots", h.GetOpenSlots)
			r.Post("/bookings", h.CreateBooking)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.GetShifts)
				r.Patch("/{ordinal}", h.UpdateShift)
			})
			r.Post("/schedule", h.PublishSchedule)

			r.Route("/days/{date}", func(r chi.Router) {
				r.Get("/bookings", h.GetDayBookings)
				r.Post("/cancellations", h.CancelBookings)
				r.Delete("/", h.CancelWorkDay)
			})

			r.Get("/group", h.GetGroup)
			r.Route("/clients", func(r chi.Router) {
				r.Post("/", h.RegisterClient)
				r.Route("/{clientID}", func(r chi.Router) {
					r.Use(h.clientID)
					r.Get("/bookings", h.GetClientBookings)
					r.Patch("/credits", h.AdjustCredits)
				})
			})
		})
	})
}
