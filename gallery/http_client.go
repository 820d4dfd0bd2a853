package gallery

import (
	"context"
	"io/ioutil"
	"net/http"
	"time"

	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/pkg/errors"
)

// ProbeTimeout bounds every outbound probe and image fetch. The original
// design left this unspecified; five seconds keeps a slow host from stalling
// message handling while staying generous for image CDNs.
const ProbeTimeout = 5 * time.Second

// HttpClient is a thin wrapper over net/http with a bounded timeout that
// treats any non-2xx response as an error.
type HttpClient struct {
	client *http.Client
}

func NewHttpClient() *HttpClient {
	return &HttpClient{client: &http.Client{Timeout: ProbeTimeout}}
}

func (c *HttpClient) Head(ctx context.Context, uri string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	res.Body.Close()
	if IsNon200HttpResponse(res) {
		return nil, errors.Errorf("non-200 http code: %d", res.StatusCode)
	}
	return res, nil
}

func (c *HttpClient) Get(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		return nil, errors.Errorf("non-200 http code: %d", res.StatusCode)
	}
	return ioutil.ReadAll(res.Body)
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response) {
	if IsNon200HttpResponse(res) {
		Logger.Log.Errorf("non-200 http code: %d for %s", res.StatusCode, res.Request.URL)
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}
