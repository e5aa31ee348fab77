// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package recordsvc implements the record service contract over HTTP,
// adapting the service.Records interface with the REST APIs of a
// dealership record service instance. Definite rejections which are
// reported by the service (a missing record or a stale source state)
// are translated back to their cerr categorized errors, while network
// failures and unrecognized responses are reported as transport
// errors, so the caller can distinguish a rejected operation from an
// operation with an unknown outcome.
package recordsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
)

// Client implements the service.Records interface by sending HTTP
// requests to a record service instance.
type Client struct {
	base string
	hc   *http.Client
}

// Option is a functional option for the record service client.
type Option func(c *Client) error

// WithHTTPClient option replaces the default http.DefaultClient
// with the given client, e.g., in order to configure timeouts.
// This option may be passed to the New() function.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.hc = hc
		return nil
	}
}

// New instantiates a record service client, taking the API base URL
// such as http://localhost:8080/api/dlweb/v1 without a trailing slash.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL must be specified")
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   http.DefaultClient,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return c, nil
}

// ListByStatus implements service.Records using a GET request to the
// /cars/:status API.
func (c *Client) ListByStatus(
	ctx context.Context, status model.CarStatus,
) ([]model.Car, error) {
	if err := status.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	const op = "list"
	resp, err := c.get(ctx, op, "/cars/"+status.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var cl []model.Car
	if err := json.NewDecoder(resp.Body).Decode(&cl); err != nil {
		return nil, &service.TransportError{
			Op:  op,
			Err: fmt.Errorf("decoding response: %w", err),
		}
	}
	return cl, nil
}

// Image implements service.Records using a GET request to the
// /cars/image/:id API. The media type is taken from the response
// Content-Type header.
func (c *Client) Image(
	ctx context.Context, pictureID uuid.UUID,
) (*model.Attachment, error) {
	const op = "image"
	resp, err := c.get(ctx, op, "/cars/image/"+pictureID.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &service.TransportError{
			Op:  op,
			Err: fmt.Errorf("reading response: %w", err),
		}
	}
	return &model.Attachment{
		Name:        pictureID.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Create implements service.Records using a POST request to the
// /cars API with a multipart body.
func (c *Client) Create(
	ctx context.Context,
	details model.CarDetails,
	picture model.Attachment,
) (*model.Car, error) {
	return c.sendCarForm(
		ctx, "create", http.MethodPost, "/cars", details, &picture,
	)
}

// Update implements service.Records using a PUT request to the
// /cars/:id API with a multipart body. A nil picture argument omits
// the picture file part, asking the service to keep the stored one.
func (c *Client) Update(
	ctx context.Context,
	carID uuid.UUID,
	details model.CarDetails,
	picture *model.Attachment,
) (*model.Car, error) {
	return c.sendCarForm(
		ctx, "update", http.MethodPut,
		"/cars/"+carID.String(), details, picture,
	)
}

// Delete implements service.Records using a DELETE request to the
// /cars/:id API.
func (c *Client) Delete(ctx context.Context, carID uuid.UUID) error {
	const op = "delete"
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.base+"/cars/"+carID.String(), nil,
	)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Reserve implements service.Records using a POST request to the
// /cars/:id/reserve API.
func (c *Client) Reserve(
	ctx context.Context, carID uuid.UUID, customer model.Customer,
) (*model.Car, error) {
	return c.transition(
		ctx, "reserve",
		"/cars/"+carID.String()+"/reserve", &customer,
	)
}

// Sell implements service.Records using a POST request to the
// /cars/:id/sell API.
func (c *Client) Sell(
	ctx context.Context, carID uuid.UUID, customer model.Customer,
) (*model.Car, error) {
	return c.transition(
		ctx, "sell", "/cars/"+carID.String()+"/sell", &customer,
	)
}

// CancelReservation implements service.Records using a POST request
// to the /cars/:id/cancel-reservation API.
func (c *Client) CancelReservation(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return c.transition(
		ctx, "cancel-reservation",
		"/cars/"+carID.String()+"/cancel-reservation", nil,
	)
}

// customerReq matches the JSON request body of the reserve and sell
// APIs, despite the model.Customer JSON tags which follow the
// response body format.
type customerReq struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
}

func (c *Client) transition(
	ctx context.Context, op, path string, customer *model.Customer,
) (*model.Car, error) {
	var body io.Reader
	if customer != nil {
		data, err := json.Marshal(customerReq{
			FullName:    customer.FullName,
			Email:       customer.Email,
			PhoneNumber: customer.PhoneNumber,
		})
		if err != nil {
			return nil, &service.TransportError{
				Op:  op,
				Err: fmt.Errorf("encoding customer: %w", err),
			}
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.base+path, body,
	)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	if customer != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeCar(op, resp.Body)
}

func (c *Client) sendCarForm(
	ctx context.Context, op, method, path string,
	details model.CarDetails, picture *model.Attachment,
) (*model.Car, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fields := map[string]string{
		"make":  details.Make,
		"model": details.Model,
		"year":  strconv.Itoa(details.Year),
		"price": strconv.FormatFloat(details.Price, 'f', -1, 64),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, &service.TransportError{
				Op:  op,
				Err: fmt.Errorf("writing %q field: %w", name, err),
			}
		}
	}
	if picture != nil {
		if err := writePicture(w, picture); err != nil {
			return nil, &service.TransportError{Op: op, Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &service.TransportError{
			Op:  op,
			Err: fmt.Errorf("finalizing multipart body: %w", err),
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeCar(op, resp.Body)
}

// writePicture adds the picture file part, preserving its original
// media type instead of the generic octet-stream which would be set
// by the CreateFormFile helper.
func writePicture(w *multipart.Writer, p *model.Attachment) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="picture"; filename="%s"`,
		strings.ReplaceAll(p.Name, `"`, `\"`),
	))
	h.Set("Content-Type", p.ContentType)
	fw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating picture part: %w", err)
	}
	if _, err := fw.Write(p.Data); err != nil {
		return fmt.Errorf("writing picture part: %w", err)
	}
	return nil
}

func (c *Client) get(
	ctx context.Context, op, path string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.base+path, nil,
	)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	return c.do(op, req)
}

// do sends the request and maps non-success responses to errors.
// Definite rejections keep their cerr category, so the use cases can
// handle a remotely detected conflict or missing record exactly like
// a locally detected one. Any other failure has an unknown outcome
// and becomes a transport error.
func (c *Client) do(
	op string, req *http.Request,
) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	detail := readDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, cerr.NotFound(errors.New(detail))
	case http.StatusConflict:
		return nil, cerr.Conflict(errors.New(detail))
	case http.StatusBadRequest:
		return nil, cerr.BadRequest(errors.New(detail))
	}
	return nil, &service.TransportError{
		Op: op,
		Err: fmt.Errorf(
			"unexpected status %d: %s", resp.StatusCode, detail,
		),
	}
}

// readDetail extracts the detail message of an error response body,
// falling back to the raw body for non-JSON responses.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(data) == 0 {
		return "no error details"
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil &&
		body.Detail != "" {
		return body.Detail
	}
	return string(data)
}

func decodeCar(op string, r io.Reader) (*model.Car, error) {
	car := &model.Car{}
	if err := json.NewDecoder(r).Decode(car); err != nil {
		return nil, &service.TransportError{
			Op:  op,
			Err: fmt.Errorf("decoding car record: %w", err),
		}
	}
	return car, nil
}
