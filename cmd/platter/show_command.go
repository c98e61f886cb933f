package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"platter/internal/config"
	"platter/internal/pipeline"
	"platter/internal/search"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show <disk-dir>",
		Short:       "Display the identification record for a disk directory",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diskDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve disk directory: %w", err)
			}

			record, err := pipeline.LoadRecord(diskDir)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no identification record found under %s (run `platter identify` first)", diskDir)
			}

			out := cmd.OutOrStdout()
			printRecordSummary(cmd, record)
			if len(record.Videos) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderVideoTable(record.Videos))
			}
			if len(record.Candidates) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderCandidateTable(record.Candidates))
			}
			return nil
		},
	}
}

func printRecordSummary(cmd *cobra.Command, record *pipeline.DiskRecord) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Disk:            %s\n", record.Name)
	fmt.Fprintf(out, "Parsed Title:    %s\n", record.Parsed.Title)
	if record.Parsed.Year > 0 {
		fmt.Fprintf(out, "Parsed Year:     %d\n", record.Parsed.Year)
	}
	if record.Parsed.Season > 0 {
		fmt.Fprintf(out, "Parsed Season:   %d\n", record.Parsed.Season)
	}
	if record.Parsed.Disc > 0 {
		fmt.Fprintf(out, "Parsed Disc:     %d\n", record.Parsed.Disc)
	}
	if record.Pattern != "" {
		fmt.Fprintf(out, "Pattern:         %s\n", record.Pattern)
	}
	if record.ContentType != "" {
		fmt.Fprintf(out, "Content Type:    %s\n", record.ContentType)
	}
	fmt.Fprintf(out, "Status:          %s\n", string(record.Status.Terminal))
	if record.Status.Error != "" {
		fmt.Fprintf(out, "Error:           %s\n", record.Status.Error)
	}
	fmt.Fprintf(out, "Completed Steps: %s\n", completedStepNames(record.Status.CompletedSteps))
	if best := record.BestMatch; best != nil {
		fmt.Fprintf(out, "Best Match:      %s [%s]\n", candidateLabel(*best), best.ExternalID)
	} else {
		fmt.Fprintf(out, "Best Match:      none\n")
	}
	fmt.Fprintf(out, "Run ID:          %s\n", record.RunID)
	if !record.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "Updated:         %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}
}

func completedStepNames(steps []int) string {
	if len(steps) == 0 {
		return "none"
	}
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		if name := pipeline.StepName(step); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func renderVideoTable(videos []pipeline.VideoRecord) string {
	headers := []string{"File", "Duration", "Size", "Video", "Subtitles", "Play-All", "Resolved"}
	rows := make([][]string, 0, len(videos))
	for _, video := range videos {
		resolved := "-"
		if video.Resolved != nil {
			resolved = candidateLabel(*video.Resolved)
		} else if video.Synopsis == pipeline.SynopsisSkipped {
			resolved = "skipped"
		}
		size := "-"
		if video.SizeBytes > 0 {
			size = humanize.Bytes(uint64(video.SizeBytes))
		}
		rows = append(rows, []string{
			filepath.Base(video.Path),
			formatDuration(video.DurationSeconds),
			size,
			videoStreamLabel(video),
			strings.Join(video.SubtitleLanguages, ","),
			yesNo(video.IsPlayAll),
			resolved,
		})
	}
	return renderTable(headers, rows, 1, 2)
}

func videoStreamLabel(video pipeline.VideoRecord) string {
	if video.VideoCodec == "" {
		return "-"
	}
	if video.Width > 0 && video.Height > 0 {
		return fmt.Sprintf("%s %dx%d", video.VideoCodec, video.Width, video.Height)
	}
	return video.VideoCodec
}

func renderCandidateTable(candidates []search.Candidate) string {
	headers := []string{"Title", "Year", "Kind", "Runtime", "Score"}
	rows := make([][]string, 0, len(candidates))
	for _, candidate := range candidates {
		year := "-"
		if candidate.Year > 0 {
			year = strconv.Itoa(candidate.Year)
		}
		runtime := "-"
		if candidate.RuntimeMinutes > 0 {
			runtime = fmt.Sprintf("%dm", candidate.RuntimeMinutes)
		}
		rows = append(rows, []string{
			candidate.Title,
			year,
			candidate.Kind,
			runtime,
			strconv.Itoa(candidate.Score),
		})
	}
	return renderTable(headers, rows, 1, 3, 4)
}
