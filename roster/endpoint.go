package roster

import (
	"context"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/jwt"
)

var (
	errInvalidRequest = errors.New("invalid request", errors.BadRequest())
	errNoUser         = errors.New("no user", errors.WithCode(http.StatusUnauthorized))
)

// Endpoint exposes the registry operations as go-kit endpoints. onAdded is
// called after a signee joins the roster. onRetarget is called with the
// deleted user and the next signee after a deletion, so the session can
// move its active signee off the deleted user when it was the one targeted.
type Endpoint struct {
	service    *Service
	onAdded    func(signroom.User)
	onRetarget func(deleted, next signroom.User)
}

func NewEndpoint(s *Service, onAdded func(signroom.User), onRetarget func(deleted, next signroom.User)) Endpoint {
	return Endpoint{
		service:    s,
		onAdded:    onAdded,
		onRetarget: onRetarget,
	}
}

type addSigneeRequest struct {
	Name  string
	Email string
}

func (ep Endpoint) AddSignee(ctx context.Context, r interface{}) (interface{}, error) {
	if err := ep.requireEditor(ctx); err != nil {
		return nil, err
	}

	req, ok := r.(addSigneeRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	user, err := ep.service.AddSignee(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if ep.onAdded != nil {
		ep.onAdded(user)
	}

	return user, nil
}

func (ep Endpoint) List(ctx context.Context, _ interface{}) (interface{}, error) {
	users, err := ep.service.List()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": users,
	}, nil
}

func (ep Endpoint) Delete(ctx context.Context, r interface{}) (interface{}, error) {
	if err := ep.requireEditor(ctx); err != nil {
		return nil, err
	}

	id, ok := r.(int)
	if !ok {
		return nil, errInvalidRequest
	}

	deleted, err := ep.service.Get(id)
	if err != nil {
		return nil, err
	}

	next, err := ep.service.Delete(id)
	if err != nil {
		return nil, err
	}

	if ep.onRetarget != nil {
		ep.onRetarget(deleted, next)
	}

	return map[string]interface{}{
		"nextSignee": next,
	}, nil
}

func (ep Endpoint) requireEditor(ctx context.Context) error {
	callerID, err := extractUserID(ctx)
	if err != nil {
		return err
	}

	caller, err := ep.service.Get(callerID)
	if err != nil {
		return err
	}

	if !caller.IsEditor() {
		return errors.New("only the editor can manage the roster", errors.Forbidden())
	}
	return nil
}

// extractUserID returns the user id present in the context, or an error if
// there is no user id or the claims are not correct.
func extractUserID(ctx context.Context) (int, error) {
	claims := ctx.Value(kitjwt.JWTClaimsContextKey)
	if claims == nil {
		return 0, errNoUser
	}

	srClaims, ok := claims.(*jwt.Claims)
	if !ok {
		return 0, errors.New("invalid claims", errors.Forbidden())
	}

	return srClaims.UserID, nil
}
