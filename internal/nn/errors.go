package nn

import "errors"

// Configuration errors returned by NewFeatureStack and NewVGG.
var (
	ErrStageGap      = errors.New("stage enabled after a disabled stage")
	ErrMissingConv   = errors.New("enabled stage has no first convolution")
	ErrInvalidConfig = errors.New("invalid VGG configuration")
)
