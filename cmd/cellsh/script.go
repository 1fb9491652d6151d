package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cellgraph/spreadsheet/internal/position"
	"github.com/cellgraph/spreadsheet/internal/sheet"
)

// loadScript builds a Sheet by replaying a script file: one edit per
// line, "<address>: <text>". Blank lines and lines starting with '#'
// are skipped. An address with no ':' clears that cell. Using ':'
// rather than '=' as the field separator keeps formula text
// (itself "=A1+1"-shaped) unambiguous on the line.
func loadScript(path string) (*sheet.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("open script %s failed: %v", path, err)
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s := sheet.New()
	scan := bufio.NewScanner(f)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, rest, hasColon := strings.Cut(line, ":")
		addr = strings.TrimSpace(addr)
		pos, err := position.FromString(addr)
		if err != nil {
			log.Printf("%s:%d: bad address %q: %v", path, lineNo, addr, err)
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if !hasColon {
			if err := s.ClearCell(pos); err != nil {
				log.Printf("%s:%d: clear %s failed: %v", path, lineNo, pos, err)
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			continue
		}
		if err := s.SetCell(pos, strings.TrimSpace(rest)); err != nil {
			log.Printf("%s:%d: set %s failed: %v", path, lineNo, pos, err)
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scan.Err(); err != nil {
		log.Printf("read script %s failed: %v", path, err)
		return nil, fmt.Errorf("read script: %w", err)
	}
	return s, nil
}
