package helper

import (
	"errors"
	"net/http"

	"conduit-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError             = `error`
	textOk                = `ok`
	codeSuccess           = 200
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeDatabaseError     = 402
	codeValidationError   = 403
	codeNotFound          = 404
	codeForbidden         = 405
	codeConflict          = 409
)

// ResponseHelper ...
type ResponseHelper struct {
	C          *gin.Context
	Status     string
	Message    string
	Data       interface{}
	Code       int // not the http code
	CodeType   string
	HTTPStatus int
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper wires a validator with English error messages.
func NewHTTPHelper() *HTTPHelper {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{
		Validate:   validate,
		Translator: trans,
	}
}

// GetStatusCode ...
// Maps service errors to HTTP status codes.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var notFound models.ErrorNotFound
	var forbidden models.ErrorForbidden
	var conflict models.ErrorConflict
	var unauthorized models.ErrorUnauthorized
	var badRequest models.ErrorBadRequest

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string, httpStatus int) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType, httpStatus}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string, httpStatus int) error {
	res := u.SetResponse(c, textError, message, data, code, codeType, httpStatus)

	return u.SendResponse(res)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeBadRequestError, `badRequest`, http.StatusBadRequest)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    "validationError",
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// BindAndValidate decodes the JSON body into req and validates it. On failure
// the error response has already been written and false is returned.
func (u *HTTPHelper) BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		u.SendBadRequest(c, "Invalid request body", err.Error())
		return false
	}

	if err := u.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			u.SendValidationError(c, validationErrors)
			return false
		}
		u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
		return false
	}

	return true
}

// SendDatabaseError ...
// Send database error response to consumers.
func (u *HTTPHelper) SendDatabaseError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeDatabaseError, `databaseError`, http.StatusInternalServerError)
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorizedError, `unAuthorized`, http.StatusUnauthorized)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`, http.StatusNotFound)
}

// SendForbiddenError ...
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbidden, `forbidden`, http.StatusForbidden)
}

// SendConflictError ...
// codeType carries the conflict code, e.g. ARTICLE_LOCKED.
func (u *HTTPHelper) SendConflictError(c *gin.Context, message string, codeType string) error {
	return u.SendError(c, message, u.EmptyJsonMap(), codeConflict, codeType, http.StatusConflict)
}

// SendServiceError ...
// Send the response matching an error returned by a service.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) error {
	var conflict models.ErrorConflict

	switch u.GetStatusCode(err) {
	case http.StatusNotFound:
		return u.SendNotFoundError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusForbidden:
		return u.SendForbiddenError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusConflict:
		errors.As(err, &conflict)
		return u.SendConflictError(c, conflict.Message, conflict.Code)
	case http.StatusUnauthorized:
		return u.SendUnauthorizedError(c, err.Error(), u.EmptyJsonMap())
	case http.StatusBadRequest:
		return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	default:
		c.Error(err)
		return u.SendDatabaseError(c, "Internal server error", u.EmptyJsonMap())
	}
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`, http.StatusOK)

	return u.SendResponse(res)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`, http.StatusCreated)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	resCode := res.HTTPStatus
	if resCode == 0 {
		resCode = http.StatusOK
	}

	res.C.JSON(resCode, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}
