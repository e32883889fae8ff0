package controllers

import (
	"net/http"

	"github.com/luiscarvajal/velamart-backend/api/responses"
)

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok", "scope": "admin"})
	}
}

func SellerPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok", "scope": "seller"})
	}
}
