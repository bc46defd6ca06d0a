package evaluation

// Prompt templates. Each takes a single %s argument.

const labelCleanupPrompt = `You are cleaning up topic labels from a communication coaching session.

Given these segments, return a JSON array. For each segment, in the same order:
- "name": A clean, concise topic label (e.g., "Giving feedback to a report", "Pitching a product idea")
- "valid": true if this is an actual practice attempt (not just small talk or greeting), false otherwise

Segments:
%s

Return ONLY a valid JSON array, no markdown.`

const voiceMetricsPrompt = `You are an expert communication evaluator. Analyze this speech transcript for communication quality.

Transcript:
---
%s
---

Evaluate these metrics (each 0-100, where 100 is excellent):

1. grammar: Correctness of sentence structure, subject-verb agreement, tense consistency
2. fluency: Smooth delivery, logical flow, natural transitions, no awkward pauses or restarts
3. filler_words: Absence of fillers (um, uh, like, you know, so, basically). 100 = no fillers, lower = more fillers
4. clarity: Clear expression of ideas, easy to follow, well-organized thoughts

For each metric provide:
- score (0-100)
- positives: 1-2 specific things done well (reference actual speech), as plain strings
- to_improve: 1-2 concrete suggestions, as plain strings

Return ONLY valid JSON:
{
  "grammar": {"score": N, "positives": [...], "to_improve": [...]},
  "fluency": {"score": N, "positives": [...], "to_improve": [...]},
  "filler_words": {"score": N, "positives": [...], "to_improve": [...]},
  "clarity": {"score": N, "positives": [...], "to_improve": [...]}
}`

const topicAnalysisPrompt = `You are an expert communication coach doing deep analysis of practice session topics.

For each topic below, evaluate the user's communication performance. Adapt your rubric based on the topic type:
- Giving feedback: evaluate specificity, actionability, empathy, structure
- Pitching/presenting: evaluate hook, value proposition, call to action, storytelling
- Saying no/difficult conversations: evaluate firmness, alternatives offered, maintaining the relationship
- General communication: evaluate structure, clarity, persuasiveness, confidence

Topics to analyze:
%s

For EACH topic, in the same order, return:
- "name": the topic name
- "scores": object with keys structure, opening_impact, key_message_clarity, persuasiveness, confidence, audience_awareness (each 0-100)
- "went_well": 2-3 strings describing what the user did well, with brief transcript quotes
- "to_improve": 2-3 strings with concrete improvement suggestions
- "missed_points": 2-4 strings naming key elements a strong communicator would have covered
- "rewrite": a 3-4 sentence model version of how a confident leader would deliver this

Return ONLY a valid JSON array of topic analyses. No markdown.`
