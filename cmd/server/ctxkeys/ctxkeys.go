// Package ctxkeys names the fiber Locals keys shared by middlewares and handlers.
package ctxkeys

const (
	// SubjectKey holds the verified "sub" claim of the bearer token.
	SubjectKey = "subject"
	// ParentCtxKey carries the request context into the WebSocket handler.
	ParentCtxKey = "parentCtx"
	// JWTTokenKey is where the jwt middleware stores the parsed token.
	JWTTokenKey = "user"
)
