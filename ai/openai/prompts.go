package openai

const structuringResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "heading": {
            "type": "string"
          },
          "content": {
            "type": "string"
          }
        },
        "required": ["heading", "content"],
        "additionalProperties": false
      }
    }
  },
  "required": ["sections"],
  "additionalProperties": false
}`

const structuringPrompt = `Split the given news article into coherent sections and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + structuringResponseSchema + `

Rules:
- Identify the article's headings and use them as section headings.
- Group 3-5 related paragraphs under each section.
- If the article has no headings, synthesize sections by topic and invent a short descriptive heading for each.
- Strip navigation menus, cookie banners, advertisements, bylines, related-article links and any other non-article boilerplate.
- Preserve all substantive information from the article body; do not summarize content away.
- Keep sections in the order the content appears in the article.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`
