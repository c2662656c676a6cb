// Package render prints client state to the terminal with pterm.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/reelnotes/reelnotes/internal/core/authz"
	"github.com/reelnotes/reelnotes/internal/core/domain"
)

const dateLayout = "2006-01-02 15:04"

// Movies prints the catalog as a table.
func Movies(movies []domain.Movie) {
	if len(movies) == 0 {
		pterm.Info.Println("No movies found.")
		return
	}
	table := pterm.TableData{{"ID", "TITLE", "DIRECTOR", "CATEGORY", "RELEASED", "RATING", "REVIEWS"}}
	for _, m := range movies {
		table = append(table, []string{
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.Director,
			m.Category,
			m.ReleaseDate,
			domain.FormatAverageRating(m.Reviews),
			strconv.Itoa(len(m.Reviews)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

// Movie prints one movie with its reviews in the requested order. The
// ACTIONS column shows what identity may do to each review.
func Movie(m domain.Movie, identity *domain.Identity, by domain.ReviewSort, descending bool) {
	pterm.DefaultSection.Println(m.Title)
	pterm.Printf("Director: %s\nCategory: %s\nReleased: %s\nAverage:  %s\n\n%s\n",
		m.Director, m.Category, m.ReleaseDate, domain.FormatAverageRating(m.Reviews), m.Description)

	pterm.DefaultSection.WithLevel(2).Println("Reviews")
	if len(m.Reviews) == 0 {
		pterm.Info.Println("No reviews yet.")
	} else {
		table := pterm.TableData{{"ID", "AUTHOR", "RATING", "DATE", "REVIEW", "ACTIONS"}}
		for _, r := range domain.SortReviews(m.Reviews, by, descending) {
			date := r.CreatedAt.Local().Format(dateLayout)
			if r.Edited() {
				date += " (edited)"
			}
			table = append(table, []string{
				strconv.FormatInt(r.ID, 10),
				r.ReviewAuthor,
				fmt.Sprintf("%d/10", r.Rating),
				date,
				r.Review,
				actions(authz.ReviewActions(identity, r.ReviewAuthor)),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	}

	if authz.CanCreateReview(identity, m) {
		pterm.Info.Printf("Add yours with: moviectl review add %d\n", m.ID)
	}
}

func actions(s authz.Actions) string {
	if s.Empty() {
		return "-"
	}
	return strings.Trim(s.String(), "{}")
}

// Identity prints the session block shown by status and after login.
func Identity(identity *domain.Identity, countdown domain.Countdown) {
	if identity == nil {
		pterm.Info.Println("Not logged in.")
		return
	}
	pterm.Success.Printf("Logged in as %s (%s)\n", identity.Username, identity.Role)
	if countdown.Active {
		pterm.Info.Printf("Session: %s\n", countdown)
	}
}

// Error prints err, expanding field validation messages one per line.
func Error(err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) == 0 {
		pterm.Error.Println(err)
		return
	}

	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, msg := range ve.Fields[f] {
			if f == domain.NonFieldErrors {
				pterm.Error.Println(msg)
				continue
			}
			pterm.Error.Printf("%s: %s\n", f, msg)
		}
	}
}
