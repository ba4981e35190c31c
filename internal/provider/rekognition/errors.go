package rekognition

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrNoFaceDetected indicates that no face was found in the provided image
	ErrNoFaceDetected = fmt.Errorf("%w in rekognition response", provider.ErrNoFaceDetected)

	// ErrInvalidImage indicates the image cannot be sent to Rekognition
	ErrInvalidImage = errors.New("invalid image for rekognition")
)
