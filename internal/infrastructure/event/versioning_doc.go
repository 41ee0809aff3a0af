package event

/*
Event schema versioning

Outbox rows and archived event payloads outlive the structs that
produced them. When an event type gains, loses or renames a field,
payloads written before the change must still deserialize and reach
their handlers. The versioning layer makes that transparent: handlers
always receive the current schema, regardless of how old the stored
payload is.

How it fits together:

  - BaseDomainEvent carries a schema_version field. Payloads without
    one, including everything written before versioning existed, count
    as version 1.
  - An EventUpgrader rewrites a payload from one version to the next.
    Upgraders must be sequential; the registry rejects gaps.
  - The VersionRegistry holds, per event type, the current version and
    the upgrader chain.
  - The VersionedSerializer wraps the plain serializer and runs the
    chain during deserialization, so callers never see stale shapes.

Evolving a schema, using order.confirmed as the example:

	type OrderConfirmedV2 struct {
		shared.BaseDomainEvent
		OrderNumber string `json:"order_number"`
		ClientSlug  string `json:"client_slug"`
		ClientName  string `json:"client_name"` // new in v2
	}

	v1ToV2 := NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
		data["client_name"] = "Unknown"
		return data, nil
	})

	serializer.RegisterVersioned("order.confirmed", 2,
		map[int]shared.DomainEvent{
			1: &trade.OrderConfirmedEvent{},
			2: &OrderConfirmedV2{},
		},
		v1ToV2,
	)

For the routine edits, CommonUpgraders saves writing the closure by
hand: AddField, RemoveField, RenameField, TransformField, WrapInObject
and UnwrapFromObject each produce a single-step upgrader.

The outbox processor runs a VersionedSerializer in production and
freshens stale stored payloads before relaying them, so dead-letter
rows and retries always show the current shape.

Stored payloads can also be brought forward eagerly with EventMigrator.
AnalyzePayloads reports the version spread of a batch, MigratePayloads
performs the upgrade and collects per-payload failures without
aborting the batch, and CreateMigrationPlan lists the steps between
two versions so an operator can review them first.

Rules that keep this safe:

  - Bump the version for any field rename, removal, type change or
    new required field. Purely additive optional fields can keep the
    version if every reader tolerates their absence.
  - Ship the upgrader before any producer writes the new version.
  - Never rename an event type. Routing and stored rows key on the
    type string; a new name is a new event.
  - Upgraders must be deterministic. They run again on every replay.

Failure behavior: an unknown event type and a missing upgrader are
hard errors, an upgrader error leaves the original payload untouched,
and a payload whose schema_version cannot be parsed is treated as
version 1 rather than rejected.
*/
