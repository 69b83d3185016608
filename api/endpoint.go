package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/raffle-lab/backend/pkg/errorx"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

// Endpoint binds one domain operation to a mux path. GET endpoints read
// the request struct from query parameters, the other methods from the
// JSON body.
type Endpoint[Request, Response any] struct {
	Method string
	Path   string
	Base   context.Context
	Handle func(ctx context.Context, req *Request) (*Response, error)
}

// requestContext carries the per-request deadline and cancellation
// while falling back to the server's base context for values.
type requestContext struct {
	context.Context
	base context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}

func (e *Endpoint[Request, Response]) Register(mux *http.ServeMux) {
	mux.HandleFunc(e.Path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != e.Method {
			writeError(w, http.StatusMethodNotAllowed, errorx.New(errorx.BadRequest,
				"Method %s is not allowed on %s", r.Method, e.Path))
			return
		}

		var req Request
		if err := e.readRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, errorx.New(errorx.BadRequest,
				"Cannot parse the request"))
			return
		}

		ctx := requestContext{Context: r.Context(), base: e.Base}
		resp, err := e.Handle(ctx, &req)
		if err != nil {
			errx, ok := err.(errorx.Error)
			if !ok {
				errx = errorx.Unknown
			}

			status := http.StatusBadRequest
			if errx.Code == errorx.Unknown.Code {
				status = http.StatusInternalServerError
			}

			xcontext.Logger(ctx).Debugf("Request %s failed: %v", e.Path, err)
			writeError(w, status, errx)
			return
		}

		writeJson(w, http.StatusOK, response[Response]{Data: resp})
	})
}

func (e *Endpoint[Request, Response]) readRequest(r *http.Request, req *Request) error {
	switch e.Method {
	case http.MethodGet, http.MethodDelete:
		v := reflect.ValueOf(req).Elem()
		for i := 0; i < v.NumField(); i++ {
			name := v.Type().Field(i).Tag.Get("json")
			queryVal := r.URL.Query().Get(name)
			if queryVal == "" {
				continue
			}

			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(queryVal)

			case reflect.Int, reflect.Int64:
				val, err := strconv.ParseInt(queryVal, 10, 64)
				if err != nil {
					return err
				}

				v.Field(i).SetInt(val)

			case reflect.Uint64:
				val, err := strconv.ParseUint(queryVal, 10, 64)
				if err != nil {
					return err
				}

				v.Field(i).SetUint(val)
			}
		}

		return nil

	default:
		if r.Body == nil {
			return nil
		}

		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil
	}
}
