package source

import (
	"context"
	"io"
	"net/http"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

func (l *Loader) fetch(ctx context.Context, url string, prev *Validators) (*Input, error) {
	request := l.client.R().SetContext(ctx)
	if prev != nil {
		if prev.ETag != "" {
			request.SetHeader("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			request.SetHeader("If-Modified-Since", prev.LastModified)
		}
	}

	response, err := request.Get(url)
	if err != nil {
		return nil, oops.
			Code(errcode.DownloadFailed).
			With("url", url).
			Wrapf(err, "downloading input")
	}

	status := response.StatusCode()

	if status == http.StatusNotModified {
		return &Input{
			Location:     url,
			ETag:         prev.etag(),
			LastModified: prev.lastModified(),
			NotModified:  true,
		}, nil
	}

	if status == http.StatusNotFound || status == http.StatusGone {
		return nil, oops.
			Code(errcode.InputNotFound).
			With("url", url).
			With("status", status).
			Hint("Check the input_file URL").
			Errorf("input url returned status %d", status)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, oops.
			Code(errcode.DownloadFailed).
			With("url", url).
			With("status", status).
			Errorf("input url returned non-success status %d", status)
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code(errcode.DownloadFailed).
			With("url", url).
			Wrapf(err, "reading response body")
	}

	return &Input{
		Location:     url,
		Data:         content,
		ETag:         response.Header().Get("ETag"),
		LastModified: response.Header().Get("Last-Modified"),
	}, nil
}

func (v *Validators) etag() string {
	if v == nil {
		return ""
	}

	return v.ETag
}

func (v *Validators) lastModified() string {
	if v == nil {
		return ""
	}

	return v.LastModified
}
