package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"addressbook/internal/auth"
	"addressbook/internal/model"
	"addressbook/internal/service"
)

// ContactHandler handles contact endpoints. Every operation runs as the
// identity bound by the auth gate.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// CreateContactRequest represents a new contact.
type CreateContactRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Address   string `json:"address" validate:"required,max=255"`
}

// UpdateContactRequest represents a partial contact update. Omitted fields are left unchanged.
type UpdateContactRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email" validate:"omitnil,email,max=255"`
	Phone     *string `json:"phone" validate:"omitnil,min=1,max=20"`
	Address   *string `json:"address" validate:"omitnil,min=1,max=255"`
}

func (r UpdateContactRequest) patch() model.ContactPatch {
	return model.ContactPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}

func contactID(c echo.Context) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint("id", &id).BindError(); err != nil {
		return 0, malformed("invalid contact ID")
	}
	return id, nil
}

// List godoc
// @Summary List the caller's contacts
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size, at most 100" default(100)
// @Success 200 {array} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	owner, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Unauthenticated()
	}

	var skip, limit int
	if err := echo.QueryParamsBinder(c).Int("skip", &skip).Int("limit", &limit).BindError(); err != nil {
		return malformed("skip and limit must be integers")
	}

	contacts, err := h.contactService.List(c.Request().Context(), owner.ID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Create godoc
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateContactRequest true "Contact"
// @Success 201 {object} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	owner, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Unauthenticated()
	}

	var req CreateContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contact, err := h.contactService.Create(c.Request().Context(), owner.ID, &model.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, contact)
}

// Get godoc
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	owner, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Unauthenticated()
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}

	contact, err := h.contactService.Get(c.Request().Context(), owner.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Update godoc
// @Summary Update a contact
// @Description Only the supplied fields are changed.
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body UpdateContactRequest true "Fields to change"
// @Success 200 {object} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /contacts/{id} [put]
// @Router /contacts/{id} [patch]
func (h *ContactHandler) Update(c echo.Context) error {
	owner, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Unauthenticated()
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}

	var req UpdateContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contact, err := h.contactService.Update(c.Request().Context(), owner.ID, id, req.patch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete a contact
// @Tags contacts
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	owner, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Unauthenticated()
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}

	if err := h.contactService.Delete(c.Request().Context(), owner.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
