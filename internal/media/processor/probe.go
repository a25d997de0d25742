package processor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// probeInfo is the technical metadata extracted from a video container.
type probeInfo struct {
	Duration float64
	Width    int64
	Height   int64
	Codec    string
	BitRate  int64
	FPS      float64
}

var errNoVideoStream = errors.New("no video stream found")

// parseProbeOutput reads the JSON emitted by ffprobe with -show_format and
// -show_streams. The first video stream wins; a container without one is a
// fatal probe failure.
func parseProbeOutput(raw []byte) (*probeInfo, error) {
	var video gjson.Result
	gjson.GetBytes(raw, "streams").ForEach(func(_, stream gjson.Result) bool {
		if stream.Get("codec_type").String() == "video" {
			video = stream
			return false
		}
		return true
	})
	if !video.Exists() {
		return nil, errNoVideoStream
	}

	info := &probeInfo{
		Duration: gjson.GetBytes(raw, "format.duration").Float(),
		Width:    video.Get("width").Int(),
		Height:   video.Get("height").Int(),
		Codec:    video.Get("codec_name").String(),
		BitRate:  gjson.GetBytes(raw, "format.bit_rate").Int(),
		FPS:      parseFrameRate(video.Get("avg_frame_rate").String()),
	}

	// Some containers carry the duration on the stream instead of the
	// format section.
	if info.Duration == 0 {
		info.Duration = video.Get("duration").Float()
	}

	return info, nil
}

// parseFrameRate resolves ffprobe's fractional rate notation ("30000/1001")
// into frames per second. Malformed input yields 0.
func parseFrameRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}

	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}

	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
