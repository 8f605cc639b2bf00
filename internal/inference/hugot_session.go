package inference

import (
	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
)

// newSession opens an ONNX runtime session. An empty path uses the
// runtime's default library location.
func newSession(onnxLibraryPath string) (*hugot.Session, error) {
	var opts []options.WithOption
	if onnxLibraryPath != "" {
		opts = append(opts, options.WithOnnxLibraryPath(onnxLibraryPath))
	}
	return hugot.NewORTSession(opts...)
}
