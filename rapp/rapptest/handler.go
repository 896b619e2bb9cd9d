package rapptest

import (
	"context"

	"github.com/advdv/rhttp"
)

// CallHandler invokes a [rhttp.HandlerFunc] and returns the response as the engine
// would send it: an error is turned into a [rhttp.StatusServerError] with an empty
// body and the framing headers are computed with [rhttp.Prepare].
func CallHandler(ctx context.Context, handler rhttp.HandlerFunc, req *rhttp.Request) *rhttp.Response {
	var resp rhttp.Response
	if err := handler(ctx, &resp, req); err != nil {
		resp.Reset()
		resp.Status = rhttp.StatusServerError
	}

	rhttp.Prepare(&resp)

	return &resp
}
