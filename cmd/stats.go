package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edbpede/math-sub000/internal/mastery"
	"github.com/edbpede/math-sub000/internal/srs"
	"github.com/edbpede/math-sub000/internal/store"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		now := time.Now().UTC()

		rows, err := s.ProgressRepo().All(ctx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		fmt.Println("Mathsub Stats")
		fmt.Println(strings.Repeat("─", 36))
		fmt.Println()

		if len(rows) == 0 {
			fmt.Println("No practice recorded yet.")
			return nil
		}

		bandCounts := make(map[mastery.Band]int)
		due := 0
		type skillLine struct {
			id      string
			level   int
			band    mastery.Band
			overdue float64
		}
		var lines []skillLine

		for _, row := range rows {
			band := mastery.BandForLevel(row.MasteryLevel)
			bandCounts[band]++
			overdue := srs.DaysOverdue(row.NextReviewAt, now)
			if srs.IsDue(row.NextReviewAt, now) {
				due++
			}
			lines = append(lines, skillLine{
				id:      row.SkillID,
				level:   row.MasteryLevel,
				band:    band,
				overdue: overdue,
			})
		}

		fmt.Printf("Skills: %d tracked, %d due for review\n", len(rows), due)
		fmt.Printf("Bands:  %d mastered, %d proficient, %d progressing, %d developing, %d introduced\n",
			bandCounts[mastery.BandMastered],
			bandCounts[mastery.BandProficient],
			bandCounts[mastery.BandProgressing],
			bandCounts[mastery.BandDeveloping],
			bandCounts[mastery.BandIntroduced])
		fmt.Println()

		sort.Slice(lines, func(i, j int) bool {
			if lines[i].level != lines[j].level {
				return lines[i].level > lines[j].level
			}
			return lines[i].id < lines[j].id
		})

		fmt.Println("Skills by mastery:")
		for _, l := range lines {
			marker := " "
			if l.overdue > 0 {
				marker = "!"
			}
			fmt.Printf("  %s %-24s %3d  %s\n", marker, l.id, l.level, l.band.Label())
		}
		fmt.Println()

		comps, err := s.ProgressRepo().AllCompetencies(ctx, userID)
		if err != nil {
			return fmt.Errorf("load competencies: %w", err)
		}
		if len(comps) > 0 {
			fmt.Println("Competency areas:")
			for _, c := range comps {
				achieved := ""
				if c.AchievedAt != nil {
					achieved = fmt.Sprintf("  (achieved %s)", c.AchievedAt.Format("2006-01-02"))
				}
				fmt.Printf("  %-26s grade %-4s %3d  %.0f%% correct%s\n",
					taxonomy.CompetencyDisplayName(c.CompetencyAreaID),
					c.GradeRange, c.MasteryLevel, c.SuccessRate*100, achieved)
			}
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().String("user", "local", "Learner id")
}
