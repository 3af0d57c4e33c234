package version

// Tag is set at build time via -ldflags="-X 'github.com/flokiorg/storehub/pkg/version.Tag=v1.2.0'"
var Tag = "dev"
