package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/meter"
	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/registry"
)

var stdin = bufio.NewScanner(os.Stdin)

func readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !stdin.Scan() {
		return "", false
	}
	return strings.TrimSpace(stdin.Text()), true
}

// promptMappings walks the undecided unit names, one at a time. Returns false
// if the user quits before every name has a decision.
func promptMappings(e *registry.Engine) bool {
	for {
		remaining := e.UnmappedNames()
		if len(remaining) == 0 {
			return true
		}
		name := remaining[0]
		fmt.Printf("\n[%d names left] %q\n", len(remaining), name)

		sugg := e.Suggestions(name)
		for i, s := range sugg {
			fmt.Printf("  %d) %s (%.2f) %s/%s\n", i+1, s.AssetName, s.Score, s.Plant, s.Category)
		}
		line, ok := readLine("  pick 1-5, or (e)xception, (g)eneral, (i)gnore, (q)uit: ")
		if !ok {
			return false
		}

		var d *model.AssetMappingDecision
		switch strings.ToLower(line) {
		case "q":
			return false
		case "e":
			d = promptException(name)
			if d == nil {
				return false
			}
		case "g":
			d = &model.AssetMappingDecision{
				OriginalName: name,
				Category:     model.CategoryGeneral,
			}
		case "i":
			d = &model.AssetMappingDecision{
				OriginalName: name,
				Category:     model.CategoryIgnore,
			}
		default:
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > len(sugg) {
				fmt.Println("  unrecognized choice")
				continue
			}
			id := sugg[n-1].AssetID
			d = &model.AssetMappingDecision{
				OriginalName:  name,
				Category:      model.CategoryFormal,
				TargetAssetID: &id,
				Confidence:    sugg[n-1].Score,
			}
		}
		if err := e.SaveDecision(d); err != nil {
			fmt.Printf("  rejected: %v\n", err)
		}
	}
}

func promptException(name string) *model.AssetMappingDecision {
	line, ok := readLine("  exception type (partner/rental/utility/unknown): ")
	if !ok {
		return nil
	}
	et := model.ExceptionType(line)
	switch et {
	case model.ExceptionPartner, model.ExceptionRental, model.ExceptionUtility, model.ExceptionUnknown:
	default:
		et = model.ExceptionUnknown
	}
	desc, ok := readLine("  description (optional): ")
	if !ok {
		return nil
	}
	owner, ok := readLine("  owner info (optional): ")
	if !ok {
		return nil
	}
	return &model.AssetMappingDecision{
		OriginalName:         name,
		Category:             model.CategoryException,
		ExceptionType:        et,
		ExceptionDescription: desc,
		OwnerInfo:            owner,
	}
}

// promptConflicts walks the pending meter conflicts. Returns false if the
// user quits with conflicts still pending.
func promptConflicts(r *meter.Resolver) bool {
	for {
		c, ok := r.Current()
		if !ok {
			return true
		}
		p := r.Progress()
		fmt.Printf("\n[conflict %d of %d] asset %s\n", p.Resolved+1, p.Resolved+p.Remaining, c.AssetCode)
		fmt.Printf("  imported (row %d, %s): horometer %s, odometer %s\n",
			c.Diesel.SourceRowNumber, c.Diesel.Date.Format("2006-01-02"),
			fmtMeter(c.Diesel.Horometer), fmtMeter(c.Diesel.Odometer))
		fmt.Printf("  checklist (%s, %s):   horometer %s, odometer %s\n",
			c.Checklist.Source, c.Checklist.Date.Format("2006-01-02"),
			fmtMeter(c.Checklist.Horometer), fmtMeter(c.Checklist.Odometer))
		if meter.RecommendDiesel(c) {
			fmt.Println("  the imported reading is newer and higher; using it is recommended")
		}

		line, ok := readLine("  (d) use imported, (c) keep checklist, (s) skip, (q) quit: ")
		if !ok {
			return false
		}
		var decision model.ConflictResolution
		switch strings.ToLower(line) {
		case "q":
			return false
		case "d":
			decision = model.ResolutionUseDiesel
		case "c":
			decision = model.ResolutionKeepChecklist
		case "s":
			decision = model.ResolutionSkip
		default:
			fmt.Println("  unrecognized choice")
			continue
		}

		remember := false
		if decision != model.ResolutionSkip {
			ans, ok := readLine("  apply to all remaining conflicts? (y/N): ")
			if !ok {
				return false
			}
			remember = strings.EqualFold(ans, "y")
		}
		if err := r.Resolve(c, decision, remember); err != nil {
			fmt.Printf("  rejected: %v\n", err)
		}
	}
}

func fmtMeter(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
