package scoring

// The prompt pair below is a contract shared with the scoring provider; the
// payload field names it references must match the ScoringPayload JSON shape.

const systemPrompt = `You are a Lead Scoring AI.

Your job:
- Predict lead priority: HOT / WARM / COOL / COLD
- Must work for ANY sector (banking, SaaS, healthcare, logistics, etc.)
- Use ONLY given input data. No assumptions.
- Provide dynamic reasons (not generic).
- Output MUST be valid JSON only.`

const userPromptTemplate = `Lead Data (JSON):
%s

Rules:
1) HOT: decision maker + strong relevance + company fit + active/engaged
2) WARM: good fit but missing some signals (activity unclear or mid seniority)
3) COOL: weak fit or low urgency
4) COLD: irrelevant role/industry OR missing key data OR low fit
Note: a null activity_days means activity is unknown, not that the lead is inactive.

Return JSON with keys:
priority (string),
score (number 0-100),
confidence (number 0-100),
reasons (array of short bullet strings),
key_factors (object with important extracted signals),
next_steps (array),
risk_flags (array)`
