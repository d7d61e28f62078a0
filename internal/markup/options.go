/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package markup

import "scriptpress/internal/screenplay"

// Option overrides a style attribute on every produced run.
type Option func(*screenplay.StyledRun)

func Bold() Option      { return func(r *screenplay.StyledRun) { r.Bold = true } }
func Italic() Option    { return func(r *screenplay.StyledRun) { r.Italic = true } }
func Underline() Option { return func(r *screenplay.StyledRun) { r.Underline = true } }

func WithAlign(a screenplay.Align) Option {
	return func(r *screenplay.StyledRun) { r.Align = a }
}

func WithColor(c string) Option {
	return func(r *screenplay.StyledRun) { r.Color = c }
}

func WithHighlightColor(c string) Option {
	return func(r *screenplay.StyledRun) { r.HighlightColor = c }
}

func WithFont(f string) Option {
	return func(r *screenplay.StyledRun) { r.Font = f }
}
