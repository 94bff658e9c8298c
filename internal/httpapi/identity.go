package httpapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// Identity headers. The display name may be percent-encoded so that
// non-ASCII names survive proxies.
const (
	HeaderUserID      = "X-User-Id"
	HeaderDisplayName = "X-Display-Name"
)

// headerProfile reads the caller's profile from request headers.
type headerProfile struct {
	header func(string) string
}

func profileFrom(c echo.Context) headerProfile {
	return headerProfile{header: c.Request().Header.Get}
}

func (p headerProfile) Profile(context.Context) (*model.Profile, error) {
	userID := strings.TrimSpace(p.header(HeaderUserID))
	name := strings.TrimSpace(p.header(HeaderDisplayName))
	if userID == "" && name == "" {
		return nil, nil
	}

	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}

	return &model.Profile{DisplayName: name, UserID: userID}, nil
}
