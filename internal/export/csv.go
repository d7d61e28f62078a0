/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"scriptpress/internal/paginate"
	"scriptpress/internal/screenplay"
)

// csvHeader lists the CSV columns.
var csvHeader = []string{"page", "line", "tag", "scene", "position", "text"}

// CSVRenderer writes one row per printed line. Title page rows use page 0;
// dual dialogue rows carry the column (l or r) and share line numbers.
// Separators are counted but not written.
type CSVRenderer struct{}

func (r *CSVRenderer) Format() Format { return FormatCSV }

func (r *CSVRenderer) Render(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	pages, meta := paginate.Paginate(doc.Spans)
	if meta != nil {
		n := 0
		for _, pos := range screenplay.PagePositions {
			for _, l := range meta.Positions[pos] {
				n++
				if err := cw.Write(csvRow(0, n, l, pos)); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
			}
		}
	}
	for _, pg := range pages {
		n := 0
		for _, s := range pg.Spans {
			switch v := s.(type) {
			case screenplay.Line:
				n++
				if v.Tag == screenplay.TagSeparator {
					continue
				}
				if err := cw.Write(csvRow(pg.Number, n, v, screenplay.PosNone)); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
			case screenplay.SplitLayout:
				for _, side := range []screenplay.Position{screenplay.PosLeft, screenplay.PosRight} {
					for i, l := range v.Column(side) {
						if l.Tag == screenplay.TagSeparator {
							continue
						}
						if err := cw.Write(csvRow(pg.Number, n+i+1, l, side)); err != nil {
							return fmt.Errorf("write csv: %w", err)
						}
					}
				}
				n += v.LineCount()
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvRow(page, line int, l screenplay.Line, pos screenplay.Position) []string {
	return []string{
		strconv.Itoa(page),
		strconv.Itoa(line),
		string(l.Tag),
		l.Scene,
		string(pos),
		l.Text(),
	}
}
