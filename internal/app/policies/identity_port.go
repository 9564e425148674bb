package policies

import "context"

// IdentityPort resolves the acting guest's identifier from the session
// credential presented with the request. The credential is passed in
// explicitly; nothing is read from ambient state.
type IdentityPort interface {
	Resolve(ctx context.Context, credential string) (string, error)
}
