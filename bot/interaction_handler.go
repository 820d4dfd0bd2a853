package bot

// This handler is to handle all user interactions from the platform client
// (button presses on post controls, modal form submissions).
// https://api.slack.com/interactivity/handling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/creepcomp/gallerybot/gallery"
	"github.com/creepcomp/gallerybot/platform"
	Logger "github.com/creepcomp/gallerybot/utils/log"
	"github.com/gin-gonic/gin"
)

// The interaction payload structs are defined here instead of relying on the
// library's, so payload drift upstream cannot break dispatch.
// https://api.slack.com/reference/interaction-payloads/block-actions#examples
type interactionUser struct {
	ID string `json:"id"`
}

type interactionContainer struct {
	ChannelID string `json:"channel_id"`
	MessageTs string `json:"message_ts"`
}

type blockAction struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
}

type viewStateValue struct {
	Value string `json:"value"`
}

type viewState struct {
	Values map[string]map[string]viewStateValue `json:"values"`
}

type interactionView struct {
	CallbackID      string    `json:"callback_id"`
	PrivateMetadata string    `json:"private_metadata"`
	State           viewState `json:"state"`
}

type InteractionPayload struct {
	Type      string               `json:"type"`
	User      interactionUser      `json:"user"`
	TriggerID string               `json:"trigger_id"`
	Container interactionContainer `json:"container"`
	Actions   []blockAction        `json:"actions"`
	View      interactionView      `json:"view"`
}

func (p *InteractionPayload) fieldValue(blockID string) string {
	return p.View.State.Values[blockID][gallery.FieldActionID].Value
}

func parseRequestToInteractionPayload(body io.Reader) (*InteractionPayload, error) {
	bodybytes, err := ioutil.ReadAll(body)
	if err != nil {
		return nil, err
	}

	payload := InteractionPayload{}
	const prefix = "payload="
	// https://api.slack.com/interactivity/handling#payloads
	// The interaction arrives as a form body with a single url-encoded
	// "payload" param instead of a plain json body.
	if !strings.HasPrefix(string(bodybytes), prefix) {
		return nil, fmt.Errorf("unsupported request")
	}

	unescaped, err := url.QueryUnescape(string(bodybytes[len(prefix):]))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal([]byte(unescaped), &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// controlHandler is one entry of the control dispatch table.
type controlHandler func(ctx context.Context, payload *InteractionPayload, ref platform.MessageRef) error

// InteractionHandler dispatches control presses and form submissions to the
// edit/delete workflows. The dispatch table maps the fixed control ids to
// their handlers; ownership is re-derived from the post inside each workflow,
// never from the control id.
func InteractionHandler(edit *gallery.EditWorkflow, del *gallery.DeleteWorkflow) gin.HandlerFunc {
	controls := map[string]controlHandler{
		gallery.EditControlID: func(ctx context.Context, p *InteractionPayload, ref platform.MessageRef) error {
			return edit.HandleButton(ctx, p.User.ID, p.TriggerID, ref)
		},
		gallery.DeleteControlID: func(ctx context.Context, p *InteractionPayload, ref platform.MessageRef) error {
			return del.HandleButton(ctx, p.User.ID, ref)
		},
	}

	return func(c *gin.Context) {
		payload, err := parseRequestToInteractionPayload(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
			return
		}

		// https://api.slack.com/interactivity/handling#acknowledgment_response
		// A valid interaction payload must be acknowledged promptly.
		c.JSON(http.StatusOK, gin.H{"ok": true})

		ctx := context.Background()

		switch payload.Type {
		case "block_actions":
			if len(payload.Actions) == 0 {
				Logger.Log.Errorln("invalid payload without any action", payload)
				return
			}
			action := payload.Actions[0]
			handler, ok := controls[action.ActionID]
			if !ok {
				Logger.Log.Warnf("interaction with unknown control id %q", action.ActionID)
				return
			}
			ref := platform.MessageRef{
				ChannelID: payload.Container.ChannelID,
				Timestamp: payload.Container.MessageTs,
			}
			if err := handler(ctx, payload, ref); err != nil {
				Logger.Log.Errorf("control %s on %s failed: %v", action.ActionID, ref, err)
			}

		case "view_submission":
			if payload.View.CallbackID != gallery.EditFormCallbackID {
				Logger.Log.Warnf("submission for unknown form %q", payload.View.CallbackID)
				return
			}
			ref, err := platform.ParseMessageRef(payload.View.PrivateMetadata)
			if err != nil {
				Logger.Log.Errorf("edit submission without a valid post ref: %v", err)
				return
			}
			sub := gallery.EditSubmission{
				Title:       payload.fieldValue(gallery.TitleBlockID),
				Description: payload.fieldValue(gallery.DescriptionBlockID),
				Tags:        payload.fieldValue(gallery.TagsBlockID),
			}
			if err := edit.HandleSubmit(ctx, payload.User.ID, ref, sub); err != nil {
				Logger.Log.Errorf("edit submission on %s failed: %v", ref, err)
			}
		}
	}
}
