// Package media decodes compressed audio payloads (MP3, AAC, OGG and
// friends) into planar sample buffers through the bundled ffmpeg
// bindings. It is the only package that links the codec surface; WAV
// payloads take a native parsing path and never reach it.
package media

import (
	"errors"
	"fmt"

	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// reader drives the ffmpeg demuxer and decoder for one staged payload.
type reader struct {
	fmtCtx    *ffmpeg.AVFormatContext
	decCtx    *ffmpeg.AVCodecContext
	streamIdx int
	frame     *ffmpeg.AVFrame
	packet    *ffmpeg.AVPacket
}

// openReader opens path and prepares a decoder for its first audio
// stream.
func openReader(path string) (*reader, error) {
	var fmtCtx *ffmpeg.AVFormatContext

	pathC := ffmpeg.ToCStr(path)
	defer pathC.Free()

	if _, err := ffmpeg.AVFormatOpenInput(&fmtCtx, pathC, nil, nil); err != nil {
		return nil, &audio.DecodeError{Reason: "cannot open payload", Err: err}
	}

	if _, err := ffmpeg.AVFormatFindStreamInfo(fmtCtx, nil); err != nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: "cannot read stream info", Err: err}
	}

	// First audio stream wins; synthesized segments carry exactly one.
	streamIdx := -1
	var stream *ffmpeg.AVStream
	streams := fmtCtx.Streams()
	for i := 0; i < int(fmtCtx.NbStreams()); i++ {
		s := streams.Get(uintptr(i))
		if s.Codecpar().CodecType() == ffmpeg.AVMediaTypeAudio {
			streamIdx = i
			stream = s
			break
		}
	}
	if streamIdx == -1 {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: "no audio stream in payload"}
	}

	codecPar := stream.Codecpar()
	decoder := ffmpeg.AVCodecFindDecoder(codecPar.CodecId())
	if decoder == nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: fmt.Sprintf("no decoder for codec ID %d", codecPar.CodecId())}
	}

	decCtx := ffmpeg.AVCodecAllocContext3(decoder)
	if decCtx == nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: "cannot allocate decoder context"}
	}

	if _, err := ffmpeg.AVCodecParametersToContext(decCtx, codecPar); err != nil {
		ffmpeg.AVCodecFreeContext(&decCtx)
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: "cannot apply codec parameters", Err: err}
	}

	if _, err := ffmpeg.AVCodecOpen2(decCtx, decoder, nil); err != nil {
		ffmpeg.AVCodecFreeContext(&decCtx)
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, &audio.DecodeError{Reason: "cannot open decoder", Err: err}
	}

	return &reader{
		fmtCtx:    fmtCtx,
		decCtx:    decCtx,
		streamIdx: streamIdx,
		frame:     ffmpeg.AVFrameAlloc(),
		packet:    ffmpeg.AVPacketAlloc(),
	}, nil
}

// readFrame returns the next decoded frame, or nil at end of stream.
// The frame is reused across calls; copy its samples out before the
// next call.
func (r *reader) readFrame() (*ffmpeg.AVFrame, error) {
	for {
		if _, err := ffmpeg.AVCodecReceiveFrame(r.decCtx, r.frame); err == nil {
			return r.frame, nil
		} else if !errors.Is(err, ffmpeg.EAgain) {
			if errors.Is(err, ffmpeg.AVErrorEOF) {
				return nil, nil
			}
			return nil, &audio.DecodeError{Reason: "cannot receive frame", Err: err}
		}

		if _, err := ffmpeg.AVReadFrame(r.fmtCtx, r.packet); err != nil {
			if errors.Is(err, ffmpeg.AVErrorEOF) {
				// Drain whatever the decoder still buffers.
				if _, err := ffmpeg.AVCodecSendPacket(r.decCtx, nil); err != nil {
					return nil, &audio.DecodeError{Reason: "cannot flush decoder", Err: err}
				}
				continue
			}
			return nil, &audio.DecodeError{Reason: "cannot read packet", Err: err}
		}

		if r.packet.StreamIndex() != r.streamIdx {
			ffmpeg.AVPacketUnref(r.packet)
			continue
		}

		if _, err := ffmpeg.AVCodecSendPacket(r.decCtx, r.packet); err != nil {
			ffmpeg.AVPacketUnref(r.packet)
			return nil, &audio.DecodeError{Reason: "cannot send packet", Err: err}
		}
		ffmpeg.AVPacketUnref(r.packet)
	}
}

func (r *reader) sampleRate() int {
	return r.decCtx.SampleRate()
}

func (r *reader) channels() int {
	return r.decCtx.ChLayout().NbChannels()
}

// close releases every ffmpeg allocation; safe on a partially
// constructed reader.
func (r *reader) close() {
	if r.frame != nil {
		ffmpeg.AVFrameFree(&r.frame)
	}
	if r.packet != nil {
		ffmpeg.AVPacketFree(&r.packet)
	}
	if r.decCtx != nil {
		ffmpeg.AVCodecFreeContext(&r.decCtx)
	}
	if r.fmtCtx != nil {
		ffmpeg.AVFormatCloseInput(&r.fmtCtx)
	}
}
