// Package course turns a learning objective into a finished course
// document: it asks the LLM for an outline, lets callers search videos per
// module, and assembles the selected videos and transcripts into
// objectives, summaries, quizzes and a conclusion.
//
// All LLM traffic goes through one injected llm.Gate. Per-module work runs
// through batch.Run so one failing module never aborts the others.
package course
