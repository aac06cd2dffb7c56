package media

import (
	"fmt"
	"os"
	"unsafe"

	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// Decoder turns compressed payload bytes into a planar sample buffer.
// PCM WAV payloads go through the native parser; everything else is
// staged to a temporary file and run through ffmpeg's demux and decode
// loop. The zero value is ready to use.
type Decoder struct{}

// Decode implements audio.Decoder.
func (Decoder) Decode(compressed []byte) (audio.Buffer, error) {
	if audio.IsWAV(compressed) {
		if buf, err := audio.DecodeWAV(compressed); err == nil {
			return buf, nil
		}
		// A RIFF signature over a payload the native parser rejects
		// (ADPCM, 24-bit, float WAV) still decodes below.
	}
	return decodeWithFFmpeg(compressed)
}

func decodeWithFFmpeg(compressed []byte) (audio.Buffer, error) {
	// The demuxer probes by filename, so the payload is staged on disk.
	tmp, err := os.CreateTemp("", "newscaster-*.seg")
	if err != nil {
		return audio.Buffer{}, &audio.DecodeError{Reason: "cannot stage payload", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return audio.Buffer{}, &audio.DecodeError{Reason: "cannot stage payload", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return audio.Buffer{}, &audio.DecodeError{Reason: "cannot stage payload", Err: err}
	}

	r, err := openReader(tmp.Name())
	if err != nil {
		return audio.Buffer{}, err
	}
	defer r.close()

	buf := audio.Buffer{
		Channels:   make([][]float32, r.channels()),
		SampleRate: r.sampleRate(),
	}

	for {
		frame, err := r.readFrame()
		if err != nil {
			return audio.Buffer{}, err
		}
		if frame == nil {
			break
		}
		if err := appendFrame(&buf, frame); err != nil {
			return audio.Buffer{}, err
		}
	}

	if len(buf.Channels) == 0 || len(buf.Channels[0]) == 0 {
		return audio.Buffer{}, &audio.DecodeError{Reason: "payload contains no audio frames"}
	}
	buf.FrameCount = len(buf.Channels[0])
	return buf, nil
}

// appendFrame copies one decoded frame onto the end of buf, converting
// whatever sample format the codec produced to float32. Planar formats
// carry one plane per channel; packed formats interleave every channel
// in plane zero.
func appendFrame(buf *audio.Buffer, frame *ffmpeg.AVFrame) error {
	samples := int(frame.NbSamples())
	if samples == 0 {
		return nil
	}
	channels := frame.ChLayout().NbChannels()
	if channels != len(buf.Channels) {
		return &audio.DecodeError{
			Reason: fmt.Sprintf("channel count changed mid-stream: %d then %d", len(buf.Channels), channels),
		}
	}

	switch format := ffmpeg.AVSampleFormat(frame.Format()); format {
	case ffmpeg.AVSampleFmtFltp:
		for c := 0; c < channels; c++ {
			plane := unsafe.Slice((*float32)(frame.Data().Get(uintptr(c))), samples)
			buf.Channels[c] = append(buf.Channels[c], plane...)
		}

	case ffmpeg.AVSampleFmtFlt:
		packed := unsafe.Slice((*float32)(frame.Data().Get(0)), samples*channels)
		for i, s := range packed {
			buf.Channels[i%channels] = append(buf.Channels[i%channels], s)
		}

	case ffmpeg.AVSampleFmtS16P:
		for c := 0; c < channels; c++ {
			plane := unsafe.Slice((*int16)(frame.Data().Get(uintptr(c))), samples)
			for _, s := range plane {
				buf.Channels[c] = append(buf.Channels[c], float32(s)/32768.0)
			}
		}

	case ffmpeg.AVSampleFmtS16:
		packed := unsafe.Slice((*int16)(frame.Data().Get(0)), samples*channels)
		for i, s := range packed {
			buf.Channels[i%channels] = append(buf.Channels[i%channels], float32(s)/32768.0)
		}

	case ffmpeg.AVSampleFmtS32P:
		for c := 0; c < channels; c++ {
			plane := unsafe.Slice((*int32)(frame.Data().Get(uintptr(c))), samples)
			for _, s := range plane {
				buf.Channels[c] = append(buf.Channels[c], float32(float64(s)/2147483648.0))
			}
		}

	case ffmpeg.AVSampleFmtS32:
		packed := unsafe.Slice((*int32)(frame.Data().Get(0)), samples*channels)
		for i, s := range packed {
			buf.Channels[i%channels] = append(buf.Channels[i%channels], float32(float64(s)/2147483648.0))
		}

	default:
		name := ffmpeg.AVGetSampleFmtName(format)
		return &audio.DecodeError{Reason: fmt.Sprintf("unsupported sample format %s", name.String())}
	}

	return nil
}
