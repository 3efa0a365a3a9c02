package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-chi/chi/v5"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrColorNotOffered = errors.New("color not offered for this product")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrInvalidParam    = errors.New("invalid path parameter")
	ErrInvalidQuery    = errors.New("invalid query parameter")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotCancel  = errors.New("order can only be cancelled while pending")
	ErrMissingIdentity = errors.New("firstName and lastName are required")
)

// ErrInsufficientStock 由 cart service 在同一把鎖內檢查
var ErrInsufficientStock = service.ErrInsufficientStock

const validationFailedMsg = "validation failed"

// StatusMessage rj_error 沒有定義的 status 使用 http 預設文字
func StatusMessage(status int) string {
	if msg, ok := er.ErrStrMap[er.ErrCode(status)]; ok {
		return msg
	}
	return strings.ToLower(http.StatusText(status))
}

// WriteError err 放在 details，500 不回傳內部錯誤
func WriteError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		err = nil
	}
	api.ErrorJSON(w, status, err, StatusMessage(status))
}

// writeServiceError 錯誤對應 http status
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidParam),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrMissingIdentity),
		errors.Is(err, ErrColorNotOffered),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, pricing.ErrPromoCodeEmpty):
		WriteError(w, int(er.BadRequestCode), err)
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, service.ErrOrderNotExist),
		errors.Is(err, pricing.ErrPromoCodeNotFound):
		WriteError(w, int(er.NotFoundCode), err)
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrOrderNotCancel),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidTransition):
		WriteError(w, int(er.ConflictCode), err)
	case errors.Is(err, pricing.ErrPromoMinOrder):
		WriteError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, int(er.RequestTimeoutCode), err)
	default:
		WriteError(w, int(er.InternalErrorCode), err)
	}
}

// 每個欄位錯誤一行 "field: rule"，對應 response 的 details
type validationError []string

func (v validationError) Error() string {
	return strings.Join(v, "\n")
}

func writeValidationError(w http.ResponseWriter, err error) {
	fields := fieldErrors(err)
	lines := make(validationError, 0, len(fields))
	for _, fe := range fields {
		lines = append(lines, fe.String())
	}
	api.ErrorJSON(w, http.StatusUnprocessableEntity, lines, validationFailedMsg)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, er.JsonDecodeErrToMsg(err))
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, ErrInvalidParam
	}
	return id, nil
}

func created(w http.ResponseWriter, data any) {
	api.JSON(w, http.StatusCreated, api.Response{Success: true, Data: data})
}
