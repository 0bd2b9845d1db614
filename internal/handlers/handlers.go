package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func sendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log *logrus.Logger, v any) {
	if _, err := sendJSON(w, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendMessageOrLog(w http.ResponseWriter, log *logrus.Logger, m string) {
	sendJSONOrLog(w, log, map[string]string{"message": m})
}

func wrapError(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
