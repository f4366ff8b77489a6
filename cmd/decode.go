package cmd

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [problem text]",
	Short: "Decode a problem into multiple-choice steps and print them as JSON",
	Example: `  k30 decode --marks 3 "A ball is thrown horizontally from a 20m cliff at 15 m/s"
  k30 decode --marks 4 --image page1.jpg --image page2.jpg --syllabus AQA --level A-Level`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		marks, _ := cmd.Flags().GetInt("marks")
		subject, _ := cmd.Flags().GetString("subject")
		syllabus, _ := cmd.Flags().GetString("syllabus")
		level, _ := cmd.Flags().GetString("level")
		images, _ := cmd.Flags().GetStringSlice("image")
		offline, _ := cmd.Flags().GetBool("offline")

		req := decode.Request{
			Text:     strings.Join(args, " "),
			Marks:    marks,
			Subject:  subject,
			Syllabus: syllabus,
			Level:    level,
		}
		for _, path := range images {
			up, err := readUpload(path)
			if err != nil {
				return err
			}
			req.Images = append(req.Images, up)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, cleanup, err := buildService(ctx, cfg, st, log, wireOptions{offline: offline, needRecognizer: len(images) > 0})
		defer cleanup()
		if err != nil {
			return err
		}

		resp, err := svc.Decode(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	decodeCmd.Flags().IntP("marks", "m", 3, "Number of steps (1-8)")
	decodeCmd.Flags().String("subject", "", "Subject, e.g. Physics")
	decodeCmd.Flags().String("syllabus", "", "Exam board, e.g. AQA, Edexcel, CIE, IB")
	decodeCmd.Flags().String("level", "", "Level, e.g. GCSE, A-Level, IB HL")
	decodeCmd.Flags().StringSliceP("image", "i", nil, "Image or PDF of the problem (repeatable)")
	decodeCmd.Flags().Bool("offline", false, "Skip the oracle and use local step generation")
}

// readUpload reads a file and guesses its MIME type from the extension,
// then from the content.
func readUpload(path string) (decode.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return decode.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return decode.Upload{MimeType: mt, Data: data}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
