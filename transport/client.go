package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http2"

	"go.viam.com/micrordk/appclient"
)

// clientDuplex adapts one outbound HTTP/2 request into the
// io.ReadWriter grpcclient expects: writes go to an io.Pipe feeding the
// request body, reads come from the response body once the server has
// replied to the initial headers (HTTP/2 allows this to happen before
// the request body is fully sent).
type clientDuplex struct {
	pw   *io.PipeWriter
	resp io.ReadCloser
}

func (c *clientDuplex) Write(p []byte) (int, error) { return c.pw.Write(p) }
func (c *clientDuplex) Read(p []byte) (int, error)  { return c.resp.Read(p) }

// HTTP2Dialer implements appclient.Dialer over a direct HTTP/2+TLS
// connection to the cloud endpoint.
type HTTP2Dialer struct {
	Addr      string
	TLSConfig *tls.Config
	transport *http2.Transport
}

func NewHTTP2Dialer(addr string, tlsConfig *tls.Config) *HTTP2Dialer {
	return &HTTP2Dialer{
		Addr:      addr,
		TLSConfig: tlsConfig,
		transport: &http2.Transport{TLSClientConfig: tlsConfig},
	}
}

func (d *HTTP2Dialer) Dial(ctx context.Context) (appclient.Conn, error) {
	pr, pw := io.Pipe()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+d.Addr+"/rpc", pr)
	if err != nil {
		return nil, fmt.Errorf("transport: building rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/grpc-micrordk")

	respCh := make(chan *http.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := d.transport.RoundTrip(req)
		if err != nil {
			errCh <- err
			return
		}
		respCh <- resp
	}()

	select {
	case err := <-errCh:
		return nil, fmt.Errorf("transport: dialing %s: %w", d.Addr, err)
	case resp := <-respCh:
		return &clientDuplex{pw: pw, resp: resp.Body}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
