package gateway

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "kbvcri/pkg/domain-errors"
)

// SOAPClient is the default Transport: SOAP 1.1 envelopes posted to the
// provider endpoint over HTTP. No retries live here; a transport fault is
// surfaced immediately for the caller to decide on.
type SOAPClient struct {
	endpoint string
	client   *http.Client
}

// NewSOAPClient builds a transport for the given provider endpoint.
func NewSOAPClient(endpoint string, timeout time.Duration) *SOAPClient {
	return &SOAPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type requestEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	NS      string   `xml:"xmlns:soapenv,attr"`
	Body    requestBody
}

type requestBody struct {
	XMLName xml.Name `xml:"soapenv:Body"`
	Payload any
}

// Response envelopes are decoded by local element name so the provider's
// namespace prefixes do not matter.
type saaResponseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Response ProviderResponse `xml:"SAAResponse2"`
	} `xml:"Body"`
}

type rtqResponseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Response ProviderResponse `xml:"RTQResponse2"`
	} `xml:"Body"`
}

func (c *SOAPClient) SAA(ctx context.Context, req *SAARequest) (*ProviderResponse, error) {
	body, err := c.call(ctx, "SAA", req)
	if err != nil {
		return nil, err
	}
	var envelope saaResponseEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode start-authentication response")
	}
	return &envelope.Body.Response, nil
}

func (c *SOAPClient) RTQ(ctx context.Context, req *RTQRequest) (*ProviderResponse, error) {
	body, err := c.call(ctx, "RTQ", req)
	if err != nil {
		return nil, err
	}
	var envelope rtqResponseEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode respond-to-questions response")
	}
	return &envelope.Body.Response, nil
}

func (c *SOAPClient) call(ctx context.Context, action string, payload any) ([]byte, error) {
	envelope := requestEnvelope{
		NS:   "http://schemas.xmlsoap.org/soap/envelope/",
		Body: requestBody{Payload: payload},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(envelope); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode provider request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build provider request")
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", action)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "provider request timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read provider response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}
	return body, nil
}
