package catalogapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/mateusz58/catalog-staging/internal/app/model"
	"github.com/mateusz58/catalog-staging/pkg/logger"
)

// Client represents a catalog backend API client
type Client struct {
	config Config
	http   *resty.Client
}

// NewClient creates a new catalog backend client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "catalog-staging/1.0"
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetHeader("X-CSRFToken", config.CSRFToken).
		SetHeader("User-Agent", userAgent)

	return &Client{
		config: config,
		http:   httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateVariant creates a variant for a component
func (c *Client) CreateVariant(ctx context.Context, req CreateVariantRequest) (*model.Variant, error) {
	if (req.ColorID == nil) == (req.CustomColorName == "") {
		return nil, fmt.Errorf("%w: exactly one of color_id and custom_color_name must be set", ErrInvalidRequest)
	}

	var res CreateVariantResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		SetError(&res).
		Post("/api/variant/create")
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}

	logger.Debug("Variant created", map[string]interface{}{
		"component_id": req.ComponentID,
		"variant_id":   res.Variant.ID,
	})
	return &res.Variant, nil
}

// UploadPictures uploads a batch of images for a variant as multipart
// images[] parts with parallel picture_order and is_primary form values.
func (c *Client) UploadPictures(ctx context.Context, variantID uint, uploads []PictureUpload) ([]model.Picture, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no images to upload", ErrInvalidRequest)
	}

	form := url.Values{}
	r := c.http.R().SetContext(ctx)
	for _, u := range uploads {
		r.SetFileReader("images[]", u.FileName, bytes.NewReader(u.Data))
		form.Add("picture_order[]", strconv.Itoa(u.Order))
		form.Add("is_primary[]", strconv.FormatBool(u.IsPrimary))
	}

	var res UploadPicturesResponse
	resp, err := r.
		SetFormDataFromValues(form).
		SetResult(&res).
		SetError(&res).
		Post(fmt.Sprintf("/api/variant/%d/pictures", variantID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return nil, fmt.Errorf("upload pictures: %w", err)
	}

	logger.Debug("Pictures uploaded", map[string]interface{}{
		"variant_id": variantID,
		"count":      len(res.Pictures),
	})
	return res.Pictures, nil
}

// DeletePicture deletes one picture of a variant
func (c *Client) DeletePicture(ctx context.Context, variantID, pictureID uint) error {
	var res StatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&res).
		Delete(fmt.Sprintf("/api/variant/%d/pictures/%d", variantID, pictureID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return fmt.Errorf("delete picture: %w", err)
	}
	return nil
}

// SetPrimaryPicture marks one picture as the variant's primary
func (c *Client) SetPrimaryPicture(ctx context.Context, variantID, pictureID uint) error {
	var res StatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&res).
		Post(fmt.Sprintf("/api/variant/%d/pictures/%d/primary", variantID, pictureID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return fmt.Errorf("set primary picture: %w", err)
	}
	return nil
}

// DeleteVariant deletes a variant and its pictures
func (c *Client) DeleteVariant(ctx context.Context, variantID uint) error {
	var res StatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&res).
		Delete(fmt.Sprintf("/api/variant/%d/delete", variantID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}

// GetEditData fetches the full variant and picture tree of a component
func (c *Client) GetEditData(ctx context.Context, componentID uint) (*model.EditData, error) {
	var res EditDataResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&res).
		Get(fmt.Sprintf("/api/components/%d/edit-data", componentID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return nil, fmt.Errorf("get edit data: %w", err)
	}

	logger.Debug("Edit data fetched", map[string]interface{}{
		"component_id": componentID,
		"variants":     len(res.Component.Variants),
	})
	return &res.EditData, nil
}

// UpdateComponent persists component-level field changes, picture renames
// and picture order values
func (c *Client) UpdateComponent(ctx context.Context, componentID uint, req UpdateComponentRequest) error {
	var res StatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		SetError(&res).
		Put(fmt.Sprintf("/api/component/%d", componentID))
	if err := c.checkResponse(resp, err, res.Success, res.Error); err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	return nil
}

// checkResponse maps a resty response onto the package sentinel errors.
// success/apiErr come from the decoded response envelope.
func (c *Client) checkResponse(resp *resty.Response, err error, success bool, apiErr string) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, apiErr)
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr)
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", ErrServerError, resp.StatusCode(), resp.String())
	case resp.IsError():
		return fmt.Errorf("%w: status %d: %s", ErrInvalidRequest, resp.StatusCode(), resp.String())
	case !success:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, apiErr)
	}
	return nil
}
