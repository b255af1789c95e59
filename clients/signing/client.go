package signing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"

	"github.com/signroom/signroom/errors"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the external signing endpoint: POST a document and a
// stamp image, get the digitally signed document back.
type Client struct {
	baseURL string
	client  HTTPClient
}

func NewClient(c HTTPClient, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  c,
	}
}

// Sign sends the exported document and the stamp image as multipart
// form-data and returns the signed document bytes.
func (c *Client) Sign(ctx context.Context, pdf, image []byte) ([]byte, error) {
	body := bytes.Buffer{}
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "document.pdf")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, err
	}

	part, err = writer.CreateFormFile("image", "logo.png")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/digitalSigningLite", c.baseURL), &body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}

		return nil, errors.New(
			fmt.Sprintf("failed to apply digital signature: %s", string(data)),
			errors.WithCode(res.StatusCode),
		)
	}

	return ioutil.ReadAll(res.Body)
}

// Certificates fetches the CA certificates the signing endpoint trusts,
// base64 DER entries.
func (c *Client) Certificates(ctx context.Context) ([]string, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/api/digitalSigningLite", c.baseURL), nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}

		return nil, errors.New(
			fmt.Sprintf("failed to fetch certificates: %s", string(data)),
			errors.WithCode(res.StatusCode),
		)
	}

	var resBody struct {
		Data struct {
			CACertificates []string `json:"ca_certificates"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return nil, err
	}

	return resBody.Data.CACertificates, nil
}
