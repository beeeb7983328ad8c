package sink

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"layeh.com/gopus"

	"jukebox/internal/resolver"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Discord streams PCM from an ffmpeg pipe into discordgo voice connections,
// one connection per guild.
type Discord struct {
	dg     *discordgo.Session
	events Events
	log    zerolog.Logger

	mu     sync.Mutex
	guilds map[string]*guildVoice
}

type guildVoice struct {
	vc     *discordgo.VoiceConnection
	volume atomic.Int32
	stream *activeStream
}

type activeStream struct {
	track    resolver.Track
	stop     chan struct{}
	stopOnce sync.Once
	paused   atomic.Bool
}

func (s *activeStream) halt() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func NewDiscord(dg *discordgo.Session, events Events, log zerolog.Logger) *Discord {
	return &Discord{
		dg:     dg,
		events: events,
		log:    log.With().Str("component", "sink").Logger(),
		guilds: make(map[string]*guildVoice),
	}
}

func (d *Discord) Connect(ctx context.Context, guildID, channelID string) error {
	d.mu.Lock()
	gv, ok := d.guilds[guildID]
	if ok && gv.vc != nil && gv.vc.ChannelID == channelID {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	type joinResult struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	done := make(chan joinResult, 1)
	go func() {
		vc, err := d.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		done <- joinResult{vc: vc, err: err}
	}()

	select {
	case <-ctx.Done():
		// The join may still land later; drop it so no connection leaks.
		go func() {
			if r := <-done; r.vc != nil {
				_ = r.vc.Disconnect()
			}
		}()
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("join voice channel: %w", r.err)
		}
		d.mu.Lock()
		if gv == nil {
			gv = &guildVoice{}
			gv.volume.Store(100)
			d.guilds[guildID] = gv
		}
		gv.vc = r.vc
		d.mu.Unlock()
		d.log.Info().Str("guild_id", guildID).Str("channel_id", channelID).Msg("joined voice channel")
		return nil
	}
}

func (d *Discord) Play(guildID string, track resolver.Track) error {
	d.mu.Lock()
	gv, ok := d.guilds[guildID]
	if !ok || gv.vc == nil {
		d.mu.Unlock()
		return errors.New("not connected to a voice channel")
	}
	if gv.stream != nil {
		gv.stream.halt()
	}
	st := &activeStream{track: track, stop: make(chan struct{})}
	gv.stream = st
	vc := gv.vc
	d.mu.Unlock()

	pcm, cleanup, err := openPCM(track)
	if err != nil {
		return fmt.Errorf("open stream for %q: %w", track.Title, err)
	}

	go d.run(guildID, gv, st, vc, pcm, cleanup)
	return nil
}

// run owns the streaming loop for one track. The stop channel halts it
// silently; natural end emits TrackFinished, read failures TrackError.
func (d *Discord) run(guildID string, gv *guildVoice, st *activeStream, vc *discordgo.VoiceConnection, pcm io.ReadCloser, cleanup func()) {
	defer cleanup()
	defer pcm.Close()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		d.events.TrackError(guildID, st.track, fmt.Errorf("opus encoder: %w", err))
		return
	}

	_ = vc.Speaking(true)
	defer vc.Speaking(false)

	d.events.TrackStarted(guildID, st.track)

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-st.stop:
			return
		default:
		}

		if st.paused.Load() {
			select {
			case <-st.stop:
				return
			case <-time.After(20 * time.Millisecond):
			}
			continue
		}

		_, err := io.ReadFull(pcm, pcmBuf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				d.events.TrackFinished(guildID)
			} else {
				d.events.TrackError(guildID, st.track, fmt.Errorf("stream read: %w", err))
			}
			return
		}

		volume := gv.volume.Load()
		for i := range intBuf {
			sample := int32(int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2])))
			sample = sample * volume / 100
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			intBuf[i] = int16(sample)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			d.events.TrackError(guildID, st.track, fmt.Errorf("opus encode: %w", err))
			return
		}

		select {
		case <-st.stop:
			return
		case vc.OpusSend <- opus:
		}
	}
}

func (d *Discord) Pause(guildID string) error {
	st, err := d.current(guildID)
	if err != nil {
		return err
	}
	st.paused.Store(true)
	return nil
}

func (d *Discord) Resume(guildID string) error {
	st, err := d.current(guildID)
	if err != nil {
		return err
	}
	st.paused.Store(false)
	return nil
}

func (d *Discord) Stop(guildID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gv, ok := d.guilds[guildID]; ok && gv.stream != nil {
		gv.stream.halt()
		gv.stream = nil
	}
	return nil
}

func (d *Discord) Disconnect(guildID string) error {
	d.mu.Lock()
	gv, ok := d.guilds[guildID]
	if ok {
		delete(d.guilds, guildID)
	}
	d.mu.Unlock()
	if !ok {
		return nil
	}
	if gv.stream != nil {
		gv.stream.halt()
	}
	if gv.vc != nil {
		if err := gv.vc.Disconnect(); err != nil {
			return fmt.Errorf("disconnect voice: %w", err)
		}
	}
	d.log.Info().Str("guild_id", guildID).Msg("left voice channel")
	return nil
}

func (d *Discord) SetVolume(guildID string, percent int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	gv, ok := d.guilds[guildID]
	if !ok {
		return errors.New("not connected to a voice channel")
	}
	gv.volume.Store(int32(percent))
	return nil
}

func (d *Discord) current(guildID string) (*activeStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gv, ok := d.guilds[guildID]
	if !ok || gv.stream == nil {
		return nil, errors.New("nothing is streaming")
	}
	return gv.stream, nil
}

// openPCM shells out to ffmpeg for decode and resample to signed 16-bit
// little-endian stereo at 48kHz, the format the opus encoder expects.
func openPCM(track resolver.Track) (io.ReadCloser, func(), error) {
	source := track.StreamURL
	if source == "" {
		source = track.URL
	}

	ffmpeg := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", source,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	cleanup := func() {
		_ = ffmpeg.Process.Kill()
		_ = ffmpeg.Wait()
	}

	return reader, cleanup, nil
}
