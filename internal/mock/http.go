package mock

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// HTTPDoer mocks http.Client.
// Safe for concurrent use.
type HTTPDoer struct {
	Statuses []int
	Bodies   [][]byte
	Headers  []http.Header

	DoFunc    func(*http.Request) (*http.Response, error)
	Responses []*http.Response

	i int
	m sync.Mutex
}

// Do fakes executing http request.
func (d *HTTPDoer) Do(r *http.Request) (*http.Response, error) {
	d.m.Lock()
	i := d.i
	d.i++
	doFunc := d.DoFunc
	d.m.Unlock()

	var response *http.Response
	if doFunc != nil {
		resp, err := doFunc(r)
		if err != nil {
			return nil, err
		}
		response = resp
	} else {
		status := http.StatusOK
		if len(d.Statuses) > 0 {
			status = d.Statuses[i%len(d.Statuses)]
		}
		var data []byte
		if len(d.Bodies) > 0 {
			data = d.Bodies[i%len(d.Bodies)]
		}
		header := http.Header{}
		if len(d.Headers) > 0 {
			header = d.Headers[i%len(d.Headers)]
		}
		response = NewResponse(r, status, data)
		response.Header = header
	}

	d.m.Lock()
	d.Responses = append(d.Responses, response)
	d.m.Unlock()

	return response, nil
}

// Calls returns number of Do calls.
func (d *HTTPDoer) Calls() int {
	d.m.Lock()
	defer d.m.Unlock()

	return d.i
}

// Requests returns requests of all completed Do calls.
func (d *HTTPDoer) Requests() []*http.Request {
	d.m.Lock()
	defer d.m.Unlock()

	reqs := make([]*http.Request, 0, len(d.Responses))
	for _, resp := range d.Responses {
		reqs = append(reqs, resp.Request)
	}
	return reqs
}

// NewResponse creates response for given request with given status and body.
func NewResponse(r *http.Request, status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{},
		Request:    r,
	}
}
