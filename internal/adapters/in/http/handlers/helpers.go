// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	usecase "shopcart/internal/application/usecase"
	customerdom "shopcart/internal/domain/customer"
	productdom "shopcart/internal/domain/product"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUsecaseError maps usecase/domain errors onto HTTP status codes.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var be *usecase.BuyError
	switch {
	case errors.As(err, &be):
		writeError(w, http.StatusConflict, be.Error())
	case errors.Is(err, productdom.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, usecase.ErrShoppingInvalidArgument),
		errors.Is(err, productdom.ErrInvalidProduct),
		errors.Is(err, customerdom.ErrInvalidCustomer):
		writeError(w, http.StatusBadRequest, "invalid argument")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// customerFromPath reads {customerId}; the optional X-Customer-Phone header fills Phone.
func customerFromPath(r *http.Request) (customerdom.Customer, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "customerId")), 10, 64)
	if err != nil {
		return customerdom.Customer{}, customerdom.ErrInvalidCustomer
	}
	return customerdom.New(id, r.Header.Get("X-Customer-Phone"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
