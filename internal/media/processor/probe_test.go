package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeOutput = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "aac",
      "codec_type": "audio",
      "sample_rate": "48000"
    },
    {
      "index": 1,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1280,
      "height": 720,
      "avg_frame_rate": "30000/1001"
    }
  ],
  "format": {
    "duration": "10.133333",
    "bit_rate": "1580000"
  }
}`

func TestParseProbeOutput(t *testing.T) {
	info, err := parseProbeOutput([]byte(sampleProbeOutput))
	require.NoError(t, err)

	assert.InDelta(t, 10.13, info.Duration, 0.01)
	assert.Equal(t, int64(1280), info.Width)
	assert.Equal(t, int64(720), info.Height)
	assert.Equal(t, "h264", info.Codec)
	assert.Equal(t, int64(1580000), info.BitRate)
	assert.InDelta(t, 29.97, info.FPS, 0.01)
}

func TestParseProbeOutput_NoVideoStream(t *testing.T) {
	raw := `{
	  "streams": [
	    {"codec_name": "mp3", "codec_type": "audio"}
	  ],
	  "format": {"duration": "180.0"}
	}`

	_, err := parseProbeOutput([]byte(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoVideoStream)
}

func TestParseProbeOutput_StreamDurationFallback(t *testing.T) {
	raw := `{
	  "streams": [
	    {"codec_name": "vp9", "codec_type": "video", "width": 640, "height": 360, "duration": "5.5"}
	  ],
	  "format": {}
	}`

	info, err := parseProbeOutput([]byte(raw))
	require.NoError(t, err)
	assert.InDelta(t, 5.5, info.Duration, 0.001)
}

func TestParseFrameRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.01)
	assert.InDelta(t, 25.0, parseFrameRate("25/1"), 0.001)
	assert.InDelta(t, 30.0, parseFrameRate("30"), 0.001)
	assert.Zero(t, parseFrameRate("0/0"))
	assert.Zero(t, parseFrameRate(""))
	assert.Zero(t, parseFrameRate("bogus"))
}
