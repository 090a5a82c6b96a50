package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assetmarket/escrow-server/pkg/escrow"
)

const (
	successJsonKey = "success"
	errorJsonKey   = "error"
)

type GenericApiResponseBody map[string]any

func NewGenericApiSuccessResponseBody() GenericApiResponseBody {
	return map[string]any{
		successJsonKey: true,
	}
}

func NewGenericApiFailureResponseBody(err error) GenericApiResponseBody {
	return map[string]any{
		successJsonKey: false,
		errorJsonKey:   err.Error(),
	}
}

func (b *GenericApiResponseBody) ToString() string {
	marshalled, _ := json.Marshal(b)
	return string(marshalled)
}

// HandleEngineErrorInWebContext maps engine failures onto HTTP status
// codes. Caller mistakes keep their message, upstream failures don't leak
// theirs.
func HandleEngineErrorInWebContext(err error) (int, error) {
	if err == nil {
		return http.StatusOK, nil
	}

	if escrow.IsValidationError(err) {
		return http.StatusBadRequest, err
	}

	switch err {
	case escrow.ErrAlreadyListed:
		return http.StatusBadRequest, err
	default:
		return http.StatusInternalServerError, errors.New("internal server error")
	}
}
