package ytdlp

import (
	"fmt"
	"sort"
	"strings"
)

// RenderArgs turns the opaque youtubedl_options map into yt-dlp command
// line flags. Keys are forwarded without validation: underscores become
// hyphens, true booleans become bare flags, false booleans become their
// --no- form, everything else is a flag with a value. Lists repeat the
// flag per element. Keys are sorted so invocations are reproducible.
func RenderArgs(opts map[string]any) []string {
	if len(opts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, key := range keys {
		flag := "--" + strings.ReplaceAll(key, "_", "-")
		switch v := opts[key].(type) {
		case bool:
			if v {
				args = append(args, flag)
			} else {
				args = append(args, "--no-"+strings.TrimPrefix(flag, "--"))
			}
		case []any:
			for _, item := range v {
				args = append(args, flag, fmt.Sprint(item))
			}
		default:
			args = append(args, flag, fmt.Sprint(v))
		}
	}
	return args
}
