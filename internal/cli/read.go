package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yutokawamata/TextStimulationApp/internal/assets"
	"github.com/yutokawamata/TextStimulationApp/internal/audio"
	"github.com/yutokawamata/TextStimulationApp/internal/playback"
	"github.com/yutokawamata/TextStimulationApp/internal/segment"
	"github.com/yutokawamata/TextStimulationApp/internal/session"
)

var readCmd = &cobra.Command{
	Use:   "read [story_file]",
	Short: "Practice reading a story phrase by phrase",
	Long: `Read a story from the catalog one phrase at a time. Press Enter to
advance to the next phrase; matching audio plays automatically in voice-on
mode. Furigana readings are shown inline after each annotated character.

Voice modes:
  voice-on    one phrase at a time, with audio
  voice-off   one phrase at a time, silent
  full-text   the whole story at once, timed

Examples:
  yomu read 01_もりのがっこう.txt --grade grade1
  yomu read 01_もりのがっこう.txt --grade grade1 --mode full-text`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringP("grade", "g", "", "Grade folder (default from config)")
	readCmd.Flags().StringP("mode", "m", "", "Voice mode: voice-on, voice-off, full-text")
}

func runRead(cmd *cobra.Command, args []string) error {
	if cfg.BaseURL == "" {
		return errors.New("no catalog base URL; set base_url in the config or pass --base-url")
	}

	grade, _ := cmd.Flags().GetString("grade")
	if grade == "" {
		grade = cfg.Defaults.Grade
	}
	if grade == "" {
		return errors.New("no grade selected; pass --grade or set defaults.grade")
	}

	modeFlag, _ := cmd.Flags().GetString("mode")
	if modeFlag == "" {
		modeFlag = cfg.Defaults.VoiceMode
	}
	mode, err := session.ParseVoiceMode(modeFlag)
	if err != nil {
		return err
	}

	settings := session.Settings{
		GradeFolder:   grade,
		StoryFilename: args[0],
		VoiceMode:     mode,
	}

	store := assets.NewStore(cfg.BaseURL)
	subsystem := audio.NewSubsystem(logger)
	controller := playback.NewController(store, subsystem, logger, grade, settings.StoryFilename)

	completed := make(chan time.Duration, 1)
	sess := session.New(store, controller, settings, logger, func(elapsed time.Duration) {
		completed <- elapsed
	})

	if err := sess.Load(cmd.Context()); err != nil {
		if errors.Is(err, segment.ErrEmptyContent) {
			return fmt.Errorf("%s has no readable content", settings.StoryFilename)
		}
		return err
	}
	defer sess.Close()

	if mode == session.FullText {
		return runFullText(sess, completed)
	}
	return runPhrases(sess, completed)
}

// one phrase per Enter press; q quits early
func runPhrases(sess *session.Session, completed <-chan time.Duration) error {
	fmt.Println("Press Enter for the next phrase, q + Enter to stop.")
	fmt.Println()

	input := bufio.NewScanner(os.Stdin)
	for {
		current, ok := sess.Current()
		if !ok {
			break
		}
		fmt.Println("  " + segment.Render(current.Text, current.Furigana))

		if !input.Scan() {
			sess.Finish()
			break
		}
		if input.Text() == "q" {
			return nil
		}
		if !sess.Advance() {
			break
		}
	}

	<-completed
	fmt.Println("おしまい! Well done.")
	return nil
}

// the whole story at once, timed until Enter
func runFullText(sess *session.Session, completed <-chan time.Duration) error {
	for _, seg := range sess.Segments() {
		if seg.IsLineBreak {
			fmt.Println()
			continue
		}
		fmt.Println("  " + segment.Render(seg.Text, seg.Furigana))
	}
	fmt.Println()
	fmt.Println("Press Enter when you have finished reading.")

	bufio.NewScanner(os.Stdin).Scan()
	sess.Finish()

	elapsed := <-completed
	fmt.Printf("Reading time: %d ms\n", elapsed.Milliseconds())
	return nil
}
