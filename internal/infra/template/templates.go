package template

// Registered template names.
const (
	EventCreated     = "event_created"
	RSVPConfirmation = "rsvp_confirmation"
	EventReminder    = "event_reminder"
	EventCancelled   = "event_cancelled"
)

// registry is the process-wide template table. Templates are immutable and
// defined at startup; every template provides all five rendering slots.
var registry = map[string]map[string]string{
	EventCreated: {
		"subject": "New Alumni Event: {{event_title}}",
		"email_body": `<h2>New Alumni Event</h2>
<p>Hello {{user_name}},</p>
<p>A new event has been scheduled:</p>
<h3>{{event_title}}</h3>
<p><strong>Date:</strong> {{start_time}}</p>
<p><strong>Location:</strong> {{venue}}</p>
<p><strong>Description:</strong></p>
<p>{{description}}</p>
<p><a href="{{rsvp_link}}">RSVP Now</a></p>
<p>Best regards,<br>Alumni Association</p>`,
		"sms_body":   "New event: {{event_title}} on {{start_time}} at {{venue}}. RSVP: {{rsvp_link}}",
		"push_title": "New Alumni Event",
		"push_body":  "{{event_title}} - {{start_time}} at {{venue}}",
	},
	RSVPConfirmation: {
		"subject": "RSVP Confirmation: {{event_title}}",
		"email_body": `<h2>RSVP Confirmation</h2>
<p>Hello {{user_name}},</p>
<p>Thank you for RSVPing <strong>{{status}}</strong> to:</p>
<h3>{{event_title}}</h3>
<p><strong>Date:</strong> {{start_time}}</p>
<p><strong>Location:</strong> {{venue}}</p>
{% if guests %}<p><strong>Guests:</strong> {{guests}}</p>
{% endif %}{% if notes %}<p><strong>Notes:</strong> {{notes}}</p>
{% endif %}<p><a href="{{event_link}}">View Event Details</a></p>
<p>Best regards,<br>Alumni Association</p>`,
		"sms_body":   "RSVP confirmed: {{status}} for {{event_title}} on {{start_time}}",
		"push_title": "RSVP Confirmed",
		"push_body":  "You're {{status}} for {{event_title}}",
	},
	EventReminder: {
		"subject": "Event Reminder: {{event_title}}",
		"email_body": `<h2>Event Reminder</h2>
<p>Hello {{user_name}},</p>
<p>Don't forget! This event is coming up soon:</p>
<h3>{{event_title}}</h3>
<p><strong>Date:</strong> {{start_time}}</p>
<p><strong>Location:</strong> {{venue}}</p>
<p><strong>Time until event:</strong> {{time_until}}</p>
<p><a href="{{event_link}}">View Event Details</a></p>
<p>Best regards,<br>Alumni Association</p>`,
		"sms_body":   "Reminder: {{event_title}} in {{time_until}} at {{venue}}",
		"push_title": "Event Reminder",
		"push_body":  "{{event_title}} is in {{time_until}}",
	},
	EventCancelled: {
		"subject": "Event Cancelled: {{event_title}}",
		"email_body": `<h2>Event Cancelled</h2>
<p>Hello {{user_name}},</p>
<p>We regret to inform you that the following event has been cancelled:</p>
<h3>{{event_title}}</h3>
<p><strong>Was scheduled for:</strong> {{start_time}}</p>
<p><strong>Reason:</strong> {{cancellation_reason}}</p>
<p>We apologize for any inconvenience.</p>
<p>Best regards,<br>Alumni Association</p>`,
		"sms_body":   "Event cancelled: {{event_title}} - {{cancellation_reason}}",
		"push_title": "Event Cancelled",
		"push_body":  "{{event_title}} has been cancelled",
	},
}
