package api

import (
	"context"
	"net/http"
	"strconv"
)

type UploadMediaRequest struct {
	OwnerID     string
	FileName    string
	ContentType string
	SizeInBytes int64
	IsPrimary   bool
	Data        []byte
}

func (c *Client) UploadMedia(ctx context.Context, req UploadMediaRequest) (*ProductMedia, error) {
	fields := map[string]string{
		"FileName":    req.FileName,
		"ContentType": req.ContentType,
		"SizeInBytes": strconv.FormatInt(req.SizeInBytes, 10),
		"ownerId":     req.OwnerID,
		"isPrimary":   strconv.FormatBool(req.IsPrimary),
	}

	var media ProductMedia
	if err := c.upload(ctx, "/Media", fields, "file", req.FileName, req.Data, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Media/"+id, nil, nil, nil)
}
