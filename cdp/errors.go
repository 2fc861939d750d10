package cdp

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeInvalidFolder = "invalid_cdp_folder"

func ErrInvalidFolder(issues []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidFolder,
		"Invalid contest data package",
	).SetDetails(issues).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeFeedErrors = "event_feed_errors"

func ErrFeedErrors(issues []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeFeedErrors,
		"Event feed contains errors",
	).SetDetails(issues).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeAssetNotFound = "asset_not_found"

func ErrAssetNotFound(kind AssetKind, id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAssetNotFound,
		fmt.Sprintf("No %s for %s", kind, id),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeUnsupportedImage = "unsupported_image"

func ErrUnsupportedImage(mediaType string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnsupportedImage,
		fmt.Sprintf("Unsupported image format: %s", mediaType),
	).SetHttpStatusCode(http.StatusUnsupportedMediaType)
}
