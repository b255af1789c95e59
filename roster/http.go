package roster

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/jwt"
)

// HTTPServer is the interface the transport registers its handlers on.
type HTTPServer interface {
	RegisterHandler(path, method string, f http.Handler)
}

func RegisterHTTP(srv HTTPServer, service *Service, jwtKey []byte, onAdded func(signroom.User), onRetarget func(deleted, next signroom.User)) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}
	authenticationMiddleware := jwt.Middleware(jwtKey)

	ep := NewEndpoint(service, onAdded, onRetarget)

	addSigneeHandler := kithttp.NewServer(
		authenticationMiddleware(ep.AddSignee),
		decodeAddSigneeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Listing is public, but a presented token still has to be valid.
	listHandler := kithttp.NewServer(
		jwt.OptionalMiddleware(jwtKey)(ep.List),
		decodeListRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	deleteHandler := kithttp.NewServer(
		authenticationMiddleware(ep.Delete),
		decodeDeleteRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	srv.RegisterHandler("/roster/signees", "POST", addSigneeHandler)
	srv.RegisterHandler("/roster/users", "GET", listHandler)
	srv.RegisterHandler("/roster/users/:id", "DELETE", deleteHandler)
}

func decodeAddSigneeRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		return nil, err
	}

	return addSigneeRequest{
		Name:  body.Name,
		Email: body.Email,
	}, nil
}

func decodeListRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func decodeDeleteRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params, _ := ctx.Value("params").(map[string]string)
	userID, err := strconv.Atoi(params["id"])
	if err != nil {
		return nil, errors.New("invalid user id", errors.WithCause(err), errors.BadRequest())
	}

	return userID, nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	statusCode := http.StatusInternalServerError
	if err, ok := err.(errors.Error); ok {
		statusCode = err.Code()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
