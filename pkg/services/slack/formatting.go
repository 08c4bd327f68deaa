package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/strategiotech/bd-barry/pkg/clients/hubspotapi"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func formatPipelineSummary(deals []*hubspotapi.Deal) string {
	if len(deals) == 0 {
		return "No active deals found in HubSpot."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Pipeline summary* (%v deals)\n", len(deals)))

	total := 0.0
	for _, deal := range deals {
		name := deal.Properties.DealName
		if name == "" {
			name = "Unnamed deal"
		}
		sb.WriteString("• *" + name + "*")

		if amount, ok := deal.GetAmount(); ok {
			total += amount
			sb.WriteString(" – " + formatAmount(amount))
		}
		if deal.Properties.DealStage != "" {
			sb.WriteString(" – " + deal.Properties.DealStage)
		}
		if closeDate, ok := deal.GetCloseDate(); ok {
			sb.WriteString(" – closes " + formatDate(closeDate))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("*Total:* " + formatAmount(total))

	return sb.String()
}

func formatAmount(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatContact(contact *hubspotapi.Contact) string {
	if contact.Properties.Email == "" || contact.GetDisplayName() == contact.Properties.Email {
		return contact.GetDisplayName()
	}
	return fmt.Sprintf("%v (%v)", contact.GetDisplayName(), contact.Properties.Email)
}

func formatNoteBody(text, userName string) string {
	if userName == "" {
		return text
	}
	return fmt.Sprintf("%v\n\nAdded by %v via Slack", text, userName)
}

func formatFollowUpNoteBody(dueDate time.Time, userName string) string {
	return formatNoteBody("Follow up by "+formatDate(dueDate), userName)
}

func usageMessage(text string) slackapi.ResponseMessage {
	return slackapi.ResponseMessage{
		Text:         text,
		ResponseType: slackapi.ResponseTypeEphemeral,
	}
}

func crmErrorMessage(action string, err error) slackapi.ResponseMessage {
	return slackapi.ResponseMessage{
		Text:         fmt.Sprintf(":warning: Couldn't %v in HubSpot: %v", action, err),
		ResponseType: slackapi.ResponseTypeEphemeral,
	}
}
