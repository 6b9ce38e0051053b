package model

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      SessionPlatform
	}{
		{
			name:      "iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148",
			want:      PlatformIOS,
		},
		{
			name:      "ipad",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) Mobile/15E148",
			want:      PlatformIOS,
		},
		{
			name:      "android phone",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36",
			want:      PlatformAndroid,
		},
		{
			name:      "desktop chrome",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36",
			want:      PlatformWeb,
		},
		{
			name:      "desktop firefox",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
			want:      PlatformWeb,
		},
		{
			name:      "native client",
			userAgent: "identity-cli/1.0.0",
			want:      PlatformDesktop,
		},
		{
			name:      "empty",
			userAgent: "",
			want:      PlatformDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.userAgent); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.userAgent, got, tt.want)
			}
		})
	}
}
