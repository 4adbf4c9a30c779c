package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Register godoc
// @Summary Register a new user
// @Description Create a new account and receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string,name=string} true "Registration data"
// @Success 201 {object} object{message=string,token=string,user=object}
// @Failure 400 {object} object{error=string}
// @Router /api/auth/register [post]
func (h *UserHandler) RegisterDoc() {}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password, receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{message=string,token=string,user=object}
// @Failure 401 {object} object{error=string}
// @Router /api/auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Current user profile
// @Description Return the profile of the authenticated user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{user=object}
// @Failure 401 {object} object{error=string}
// @Router /api/auth/me [get]
func (h *UserHandler) GetProfileDoc() {}
