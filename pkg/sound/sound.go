// Package sound plays wav files for user feedback; the robot has no other
// UI once it's driving.  Playback is fire-and-forget through a channel and
// a new sound cuts off whatever was still playing.
package sound

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

func InitSound() chan string {
	soundsToPlay := make(chan string)
	go playLoop(soundsToPlay)
	return soundsToPlay
}

func playLoop(soundsToPlay chan string) {
	defer func() {
		recover()
		drain(soundsToPlay)
	}()

	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/5)); err != nil {
		fmt.Println("Failed to open speaker", err)
		drain(soundsToPlay)
		return
	}

	var ctrl *beep.Ctrl
	var stream beep.StreamSeekCloser
	for soundToPlay := range soundsToPlay {
		if ctrl != nil {
			speaker.Lock()
			ctrl.Paused = true
			ctrl.Streamer = nil
			speaker.Unlock()
			ctrl = nil
		}
		if stream != nil {
			stream.Close()
			stream = nil
		}

		f, err := os.Open(soundToPlay)
		if err != nil {
			fmt.Println("Failed to open sound", err)
			continue
		}
		stream, _, err = wav.Decode(f)
		if err != nil {
			fmt.Println("Failed to decode sound", err)
			continue
		}
		ctrl = &beep.Ctrl{Streamer: stream}
		speaker.Play(ctrl)
	}
}

func drain(soundsToPlay chan string) {
	for s := range soundsToPlay {
		fmt.Println("Unable to play", s)
	}
}
