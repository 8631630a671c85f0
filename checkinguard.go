package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lagren/checkinguard/monitor"
	"github.com/sirupsen/logrus"
)

func newRouter(m *monitor.Monitor, localDev bool) *mux.Router {
	r := mux.NewRouter()

	if localDev {
		r.HandleFunc("/__scheduled", scheduledHandler(m))
	}

	r.HandleFunc("/", checkinHandler(m))

	return r
}

// checkinHandler answers host check-ins. The body is always empty; only the
// status code tells the host what happened.
func checkinHandler(m *monitor.Monitor) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		hostKey := r.URL.Query().Get("hostkey")

		err := m.CheckIn(r.Context(), hostKey)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, monitor.ErrMissingHostKey):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, monitor.ErrUnknownHost):
			logrus.Warnf("Check-in with unknown host key from %s", r.RemoteAddr)

			w.WriteHeader(http.StatusUnauthorized)
		default:
			logrus.Errorf("Could not record check-in: %s", err)

			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

// scheduledHandler runs one sweep on demand. Only routed in local dev.
func scheduledHandler(m *monitor.Monitor) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Sweep(r.Context(), time.Now()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
