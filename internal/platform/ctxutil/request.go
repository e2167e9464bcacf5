package ctxutil

import (
	"context"

	"github.com/yungbote/mavedb-backend/internal/domain"
)

type requestDataKey struct{}

// RequestData is the caller identity attached by the auth middleware.
type RequestData struct {
	User *domain.User
}

func (rd *RequestData) UserID() int64 {
	if rd == nil || rd.User == nil {
		return 0
	}
	return rd.User.ID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *domain.User {
	rd := GetRequestData(ctx)
	if rd == nil {
		return nil
	}
	return rd.User
}
