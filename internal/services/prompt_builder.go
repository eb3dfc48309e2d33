package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"tripplan/internal/models/request_models"
	"tripplan/internal/models/response_models"
)

const itinerarySchema = `{
  "days": [
    {
      "day": 1,
      "title": "Short theme of the day",
      "weather": "Expected weather, optional",
      "dailyCost": 850000,
      "activities": [
        {
          "startTime": "08:00",
          "endTime": "09:30",
          "description": "What the traveler does",
          "address": "Street, ward, district, city",
          "placeDetail": "One or two sentences about the place",
          "estimatedCost": 150000,
          "transportation": "How to get there",
          "image": ""
        }
      ]
    }
  ],
  "totalCost": 850000,
  "suggestedAccommodation": "Name and area of a suitable place to stay"
}`

// ChunkContext places a sub-request inside a longer trip.
type ChunkContext struct {
	DayOffset         int
	TotalDays         int
	PreviousAddresses []string
}

// PromptBuilder renders prompts for the generative model. It holds no state and never fails.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) Build(req request_models.TravelRequest, formattedBudget, relatedKnowledge string) string {
	return b.BuildChunk(req, formattedBudget, relatedKnowledge, ChunkContext{TotalDays: req.Days})
}

func (b *PromptBuilder) BuildChunk(req request_models.TravelRequest, formattedBudget, relatedKnowledge string, chunk ChunkContext) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Create a detailed %d-day travel itinerary for %s starting on %s.\n",
		req.Days, req.Destination, req.TravelDate.String()))
	if chunk.DayOffset > 0 || chunk.TotalDays > req.Days {
		prompt.WriteString(fmt.Sprintf("This is part of a %d-day trip: it covers days %d to %d of the trip. Number the days 1 to %d in the JSON.\n",
			chunk.TotalDays, chunk.DayOffset+1, chunk.DayOffset+req.Days, req.Days))
	}

	b.writeProfile(&prompt, req, formattedBudget)

	if strings.TrimSpace(relatedKnowledge) != "" {
		prompt.WriteString("\nRelevant places you may use when they fit:\n")
		prompt.WriteString(strings.TrimSpace(relatedKnowledge))
		prompt.WriteString("\n")
	}

	writeAddressExclusions(&prompt, chunk.PreviousAddresses)

	prompt.WriteString("\nCRITICAL REQUIREMENTS:\n")
	prompt.WriteString(fmt.Sprintf("1. Return exactly %d days, numbered 1 to %d\n", req.Days, req.Days))
	writeActivityRules(&prompt, 2, req.Destination)
	prompt.WriteString("8. Keep the total cost within the budget\n")
	prompt.WriteString("9. Return ONLY valid JSON, no markdown, no extra text\n\n")

	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(itinerarySchema)

	return prompt.String()
}

// BuildUpdatePrompt embeds the current days and the traveler's edit instruction. The model
// is asked to return only the days it changes, keyed by their existing day numbers.
func (b *PromptBuilder) BuildUpdatePrompt(
	req request_models.TravelRequest,
	days []response_models.ItineraryDay,
	userInstruction string,
	usedAddresses []string,
	destinationHint string,
) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are revising an existing travel itinerary for %s.\n", req.Destination))
	b.writeProfile(&prompt, req, "")

	current, _ := json.MarshalIndent(map[string]any{"days": toModelDays(days)}, "", "  ")
	prompt.WriteString("\nCurrent itinerary (JSON):\n")
	prompt.Write(current)
	prompt.WriteString("\n\n")

	prompt.WriteString(fmt.Sprintf("Traveler's change request: %s\n", strings.TrimSpace(userInstruction)))
	if destinationHint != "" {
		prompt.WriteString(fmt.Sprintf("The traveler may be asking to move these days to %s. Only change the destination if the request clearly says so.\n", destinationHint))
	}

	writeAddressExclusions(&prompt, usedAddresses)

	prompt.WriteString("\nCRITICAL REQUIREMENTS:\n")
	prompt.WriteString("1. Return ONLY the days that change, each with its full list of activities and the same day number as above\n")
	writeActivityRules(&prompt, 2, req.Destination)
	prompt.WriteString("8. If nothing needs to change, return {\"days\": []}\n")
	prompt.WriteString("9. Return ONLY valid JSON, no markdown, no extra text\n\n")

	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(itinerarySchema)

	return prompt.String()
}

// BuildRepairPrompt asks the model to turn malformed output into valid JSON.
func (b *PromptBuilder) BuildRepairPrompt(broken string) string {
	var prompt strings.Builder
	prompt.WriteString("The following text should be a single JSON object describing a travel itinerary, but it is not valid JSON.\n")
	prompt.WriteString("Fix the syntax and return valid JSON only. Keep every key and value that can be recovered. Do not add commentary or markdown.\n\n")
	prompt.WriteString("Text to fix:\n")
	prompt.WriteString(broken)
	return prompt.String()
}

func (b *PromptBuilder) writeProfile(prompt *strings.Builder, req request_models.TravelRequest, formattedBudget string) {
	prompt.WriteString("\nTraveler profile:\n")
	if formattedBudget != "" {
		prompt.WriteString(fmt.Sprintf("- Budget for the whole trip: %s\n", formattedBudget))
	}
	if p := strings.TrimSpace(req.Preferences); p != "" {
		prompt.WriteString(fmt.Sprintf("- Preferences: %s\n", p))
	}
	if req.Transportation != "" {
		prompt.WriteString(fmt.Sprintf("- Transportation: %s\n", req.Transportation))
	}
	if req.Dining != "" {
		prompt.WriteString(fmt.Sprintf("- Dining: %s\n", req.Dining))
	}
	if req.Group != "" {
		prompt.WriteString(fmt.Sprintf("- Travel group: %s\n", req.Group))
	}
	if req.Accommodation != "" {
		prompt.WriteString(fmt.Sprintf("- Accommodation: %s\n", req.Accommodation))
	}
}

func writeActivityRules(prompt *strings.Builder, first int, destination string) {
	rules := []string{
		`Every activity has "startTime" and "endTime" in HH:mm 24-hour format`,
		fmt.Sprintf(`Every activity has a real, resolvable "address" (street, ward, district, city) in or near %s`, destination),
		`"estimatedCost" is an integer amount in VND without separators or currency text`,
		`Every activity has a "placeDetail" narrative about the place`,
		`"dailyCost" equals the sum of that day's "estimatedCost" values`,
		`"totalCost" equals the sum of every "dailyCost"`,
	}
	for i, rule := range rules {
		prompt.WriteString(fmt.Sprintf("%d. %s\n", first+i, rule))
	}
}

func writeAddressExclusions(prompt *strings.Builder, addresses []string) {
	if len(addresses) == 0 {
		return
	}
	prompt.WriteString("\nDo NOT repeat these addresses, they are already used in the itinerary:\n")
	for _, addr := range addresses {
		prompt.WriteString(fmt.Sprintf("- %s\n", addr))
	}
}
