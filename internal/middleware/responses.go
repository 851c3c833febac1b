package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if IsHTMX(r.Context()) {
		render.Status(r, code)
		render.JSON(w, r, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, code)
}
