// Package audio 终端前端的提示音
//
// 提示音由正弦波合成，不依赖音频文件。
package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue 提示音种类
type Cue int

const (
	CueSelect Cue = iota
	CueMove
	CueDeny
	CueTurn
)

type tone struct {
	freq     float64
	duration time.Duration
}

var cueTones = map[Cue][]tone{
	CueSelect: {{660, 60 * time.Millisecond}},
	CueMove:   {{880, 80 * time.Millisecond}},
	CueDeny:   {{220, 150 * time.Millisecond}},
	CueTurn:   {{523, 90 * time.Millisecond}, {784, 120 * time.Millisecond}},
}

// Streamer 合成提示音
func Streamer(sr beep.SampleRate, c Cue) (beep.Streamer, error) {
	tones, ok := cueTones[c]
	if !ok {
		return nil, fmt.Errorf("unknown cue %d", c)
	}
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		s, err := generators.SineTone(sr, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sr.N(t.duration), s))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: -0.7}, nil
}

// Cues 提示音播放器
// 零值可用：未初始化时 Play 为空操作
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	enabled     bool
}

// NewCues 创建播放器
func NewCues(enabled bool) *Cues {
	return &Cues{mixer: &beep.Mixer{}, enabled: enabled}
}

// Init 初始化扬声器
// 没有可用音频设备时返回错误，调用方可以忽略并静音运行
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// SetEnabled 设置开关
func (c *Cues) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// Play 播放提示音
func (c *Cues) Play(cue Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || !c.enabled {
		return
	}
	s, err := Streamer(sampleRate, cue)
	if err != nil {
		log.Printf("[Audio] %v", err)
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Close 停止播放并关闭扬声器
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}
