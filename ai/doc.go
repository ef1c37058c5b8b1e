// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the embedding service abstraction for tabvec.
//
// The Embedder interface separates document embedding (batched, tagged for
// retrieval-document use) from query embedding (single text, tagged for
// retrieval-query use). Implementations live in sub-packages:
//
//   - ai/openai: OpenAI-compatible APIs (Ollama, LocalAI, vLLM, OpenAI)
//   - ai/googleai: Google Gemini embedding models
//   - ai/mock: deterministic test double
//
// Production constructors return the ai.Embedder interface to prevent
// coupling to a concrete provider; the mock constructor returns a concrete
// type so tests can inject behavior and assert call counts.
//
// Embedders perform no retries. A caller that needs retry or backoff must
// layer it on top (see ingest.Scheduler, which fails the whole run on the
// first batch error instead).
package ai
