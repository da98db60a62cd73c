package api

import (
	"net/http"
	"strings"

	"github.com/navin-oss/CropChain/pkg/types"
)

// Caller identity headers. Authentication sits in front of this service;
// these headers arrive already verified by the gateway.
const (
	HeaderCallerID = "X-Caller-Id"
	HeaderRole     = "X-Caller-Role"
	HeaderFarmerID = "X-Farmer-Id"
)

// callerFromRequest builds the caller identity from request headers. A
// missing role leaves the caller without privileges; it never defaults to
// admin.
func callerFromRequest(r *http.Request) types.Caller {
	return types.Caller{
		ID:       strings.TrimSpace(r.Header.Get(HeaderCallerID)),
		Role:     strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderRole))),
		FarmerID: strings.TrimSpace(r.Header.Get(HeaderFarmerID)),
	}
}
