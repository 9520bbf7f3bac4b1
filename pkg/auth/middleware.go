package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type claimsKey struct{}

var errNoBearer = errors.New("authorization header must use the Bearer scheme")

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext reports the caller attached by UnaryAuthInterceptor.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// bearerToken extracts the token from the first "authorization" metadata
// value. The scheme is matched case-insensitively.
func bearerToken(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	raw := md.Get("authorization")
	if len(raw) == 0 {
		return "", errors.New("missing authorization header")
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(raw[0]), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errNoBearer
	}
	return strings.TrimSpace(token), nil
}

// UnaryAuthInterceptor rejects calls without a valid bearer token and puts
// the verified claims on the context. Full method names in public bypass it
// (health probes).
func UnaryAuthInterceptor(jwtService *JWTService, public []string) grpc.UnaryServerInterceptor {
	open := make(map[string]bool, len(public))
	for _, m := range public {
		open[m] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}
		token, err := bearerToken(ctx)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}
		return next(ContextWithClaims(ctx, claims), req)
	}
}

// RequireRole succeeds when the authenticated caller holds any of roles.
func RequireRole(ctx context.Context, roles ...string) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, r := range roles {
		if claims.HasRole(r) {
			return nil
		}
	}
	return status.Errorf(codes.PermissionDenied, "client %q lacks role %s", claims.ClientID, strings.Join(roles, " or "))
}

