package application

import "fmt"

// Sampling temperatures used for each oracle call
const (
	SegmentTemperature = 0.3
	DecideTemperature  = 0.2
	NameTemperature    = 0.3
)

// SegmentPrompt asks the oracle to split a line-numbered note into segments
func SegmentPrompt(numbered string) string {
	return fmt.Sprintf(`Analyze the following Obsidian note and break it into logical segments. Each segment should represent a distinct idea, concept, or topic.

Return your response as CSV with these columns: segment_number,line_start,line_end,description

Example format:
1,1,5,YAML frontmatter metadata
2,7,11,Groq performance notes
3,12,28,Project ideas and brainstorming

Here is the note with line numbers:

%s

IMPORTANT: Return ONLY the CSV data (no headers, no additional text).`, numbered)
}

// DecidePrompt asks the oracle which segments deserve their own note
func DecidePrompt(segmentsTable, original string) string {
	return fmt.Sprintf(`You are helping with knowledge management in an Obsidian vault. Below are segments from a note, along with the original content.

Your task: Identify which segments should be extracted into separate notes. Extract segments that contain:
- Interesting insights or "aha" moments
- Solutions to problems you've struggled with
- Noteworthy concepts that deserve their own note
- Ideas with clear value that could be referenced later
- Complete thoughts that stand alone well

DO NOT extract:
- Metadata/frontmatter
- Simple lists without context
- Incomplete thoughts or rough brainstorming
- Administrative notes

Segments (CSV format: segment_number,line_start,line_end,description):
%s

Original content:
%s

Return ONLY the segment numbers to extract, comma-separated (e.g., "2,5,7" or "none" if nothing should be extracted).`, segmentsTable, original)
}

// NamePrompt asks the oracle for a filename for extracted content
func NamePrompt(content string) string {
	return fmt.Sprintf(`Generate a concise, descriptive filename for the following note content. The filename should:
- Be suitable for an Obsidian note (no special characters except hyphens and spaces)
- Capture the main concept or insight
- Be between 3-8 words
- Use lowercase with hyphens instead of spaces

Content to name:
%s

Return ONLY the filename without .md extension (e.g., "state-space-representation" or "recursive-neural-networks").`, content)
}
