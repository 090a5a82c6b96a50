package web

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/assetmarket/escrow-server/pkg/escrow"
)

const (
	v1PathPrefix        = "/v1"
	v1ListAssetPath     = v1PathPrefix + "/listAsset"
	v1BuyAssetPath      = v1PathPrefix + "/buyAsset"
	v1CancelListingPath = v1PathPrefix + "/cancelListing"
	v1GetListingsPath   = v1PathPrefix + "/getListings"

	contentTypeHeaderName      = "content-type"
	jsonContentTypeHeaderValue = "application/json"
)

type Server struct {
	log    *logrus.Entry
	engine *escrow.Engine
}

func NewEscrowServer(engine *escrow.Engine) *Server {
	return &Server{
		log:    logrus.StandardLogger().WithField("type", "escrow/web/server"),
		engine: engine,
	}
}

func (s *Server) listAssetHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodPost {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			params, err := newListParamsFromHttpContext(r)
			if err != nil {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(err)
			}

			res, err := s.engine.List(ctx, params)
			if err != nil {
				log.WithError(err).Warn("failure listing asset")
				statusCode, err := HandleEngineErrorInWebContext(err)
				return statusCode, NewGenericApiFailureResponseBody(err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["transaction"] = res.Transaction
			respBody["escrow"] = res.Escrow
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Warn("failed to write body")
		}
	}
}

func (s *Server) buyAssetHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodPost {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			params, err := newBuyParamsFromHttpContext(r)
			if err != nil {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(err)
			}

			res, err := s.engine.Buy(ctx, params)
			if err != nil {
				log.WithError(err).Warn("failure buying asset")
				statusCode, err := HandleEngineErrorInWebContext(err)
				return statusCode, NewGenericApiFailureResponseBody(err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["transaction"] = res.Transaction
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Warn("failed to write body")
		}
	}
}

func (s *Server) cancelListingHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodPost {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			params, err := newCancelParamsFromHttpContext(r)
			if err != nil {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(err)
			}

			res, err := s.engine.Cancel(ctx, params)
			if err != nil {
				log.WithError(err).Warn("failure cancelling listing")
				statusCode, err := HandleEngineErrorInWebContext(err)
				return statusCode, NewGenericApiFailureResponseBody(err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["transaction"] = res.Transaction
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Warn("failed to write body")
		}
	}
}

func (s *Server) getListingsHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodGet {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errors.New("http get expected"))
			}

			listings, err := s.engine.GetListings(ctx)
			if err != nil {
				log.WithError(err).Warn("failure getting listings")
				statusCode, err := HandleEngineErrorInWebContext(err)
				return statusCode, NewGenericApiFailureResponseBody(err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["listings"] = listings
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Warn("failed to write body")
		}
	}
}

func (s *Server) GetHandlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		v1ListAssetPath:     s.listAssetHandler(v1ListAssetPath),
		v1BuyAssetPath:      s.buyAssetHandler(v1BuyAssetPath),
		v1CancelListingPath: s.cancelListingHandler(v1CancelListingPath),
		v1GetListingsPath:   s.getListingsHandler(v1GetListingsPath),
	}
}
