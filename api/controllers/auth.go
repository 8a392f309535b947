package controllers

import (
	"net/http"

	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/api/validators"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/internal/users"
	"github.com/homemade/pickleshop/pkg/session"
)

type signupForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginForm struct {
	Username string `form:"username,omitempty"`
	Password string `form:"password,omitempty"`
}

func Signup(svc users.Service, policy reporting.Policy) http.HandlerFunc {
	done := redirect{okTarget: "/login", okFlash: FlashSignupOK, failTarget: "/signup"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var form signupForm
		if err := validators.DecodeForm(r, &form); err != nil {
			done.finish(ctx, w, r, policy, "users.signup.decode", err)
			return
		}
		_, err := svc.Signup(ctx, users.SignupInput{
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
		})
		done.finish(ctx, w, r, policy, "users.signup", err)
	}
}

// Login is the one path that surfaces a validation failure to the user.
func Login(rdr *render.Renderer, svc users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := session.FromContext(ctx)

		var form loginForm
		if err := validators.DecodeForm(r, &form); err == nil && svc.Login(ctx, form.Username, form.Password) {
			sess.Login(form.Username)
			redirectWithFlash(w, r, "/home", FlashLoginOK)
			return
		}
		sess.AddFlash(FlashLoginInvalid)
		rdr.HTML(w, r, http.StatusOK, "login", "Login", nil)
	}
}
