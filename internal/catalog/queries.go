package catalog

import (
	"fmt"
	"strings"
)

// Server versions at which catalog layouts change.
const (
	minServerVersion        = 90600
	versionPgSequence       = 100000
	versionPartitioning     = 100000
	versionIdentity         = 100000
	versionPermissivePolicy = 100000
	versionProkind          = 110000
	versionPartitionIndex   = 110000
	versionGenerated        = 120000
	versionTriggerParent    = 130000
)

// Every schema scoped query takes the include list as $1 (NULL for all
// schemas) and the exclude list as $2.
const schemaFilter = `n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
  AND n.nspname NOT LIKE 'pg\_%temp\_%'
  AND ($1::text[] IS NULL OR n.nspname = ANY ($1::text[]))
  AND n.nspname <> ALL ($2::text[])`

func notExtensionMember(catalog, oid string) string {
	return fmt.Sprintf(`NOT EXISTS (
    SELECT 1 FROM pg_depend dep
    WHERE dep.classid = '%s'::regclass AND dep.objid = %s AND dep.deptype = 'e')`, catalog, oid)
}

// optionList renders a text[] option column as a comma separated string,
// escaping backslashes and commas inside entries. NULL stays NULL.
func optionList(col string) string {
	return fmt.Sprintf(`CASE WHEN %[1]s IS NULL THEN NULL ELSE array_to_string(ARRAY(
    SELECT replace(replace(o, '\', '\\'), ',', '\,') FROM unnest(%[1]s) AS o), ',') END`, col)
}

func tableKinds(version int) string {
	if version >= versionPartitioning {
		return `c.relkind IN ('r', 'p') AND NOT c.relispartition`
	}
	return `c.relkind = 'r'`
}

func trim(q string) string { return strings.TrimSpace(q) }

const serverVersionQuery = `SELECT current_setting('server_version_num')::int`

var schemasQuery = trim(`
SELECT n.nspname, pg_get_userbyid(n.nspowner), obj_description(n.oid, 'pg_namespace'), n.nspacl::text
FROM pg_namespace n
WHERE ` + schemaFilter + `
  AND ` + notExtensionMember("pg_namespace", "n.oid") + `
ORDER BY n.nspname`)

var extensionsQuery = trim(`
SELECT e.extname, n.nspname, e.extversion, obj_description(e.oid, 'pg_extension')
FROM pg_extension e
JOIN pg_namespace n ON n.oid = e.extnamespace
WHERE ` + schemaFilter + `
ORDER BY e.extname`)

var typesQuery = trim(`
SELECT n.nspname, t.typname, pg_get_userbyid(t.typowner), t.typtype::text,
       obj_description(t.oid, 'pg_type'), t.typacl::text
FROM pg_type t
JOIN pg_namespace n ON n.oid = t.typnamespace
LEFT JOIN pg_class c ON c.oid = t.typrelid
WHERE (t.typtype = 'e' OR (t.typtype = 'c' AND c.relkind = 'c'))
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_type", "t.oid") + `
ORDER BY n.nspname, t.typname`)

var enumLabelsQuery = trim(`
SELECT n.nspname, t.typname, e.enumlabel
FROM pg_enum e
JOIN pg_type t ON t.oid = e.enumtypid
JOIN pg_namespace n ON n.oid = t.typnamespace
WHERE ` + schemaFilter + `
ORDER BY n.nspname, t.typname, e.enumsortorder`)

var typeAttributesQuery = trim(`
SELECT n.nspname, t.typname, a.attname, format_type(a.atttypid, a.atttypmod), co.collname
FROM pg_type t
JOIN pg_namespace n ON n.oid = t.typnamespace
JOIN pg_attribute a ON a.attrelid = t.typrelid
LEFT JOIN pg_collation co ON co.oid = a.attcollation
  AND a.attcollation <> (SELECT at.typcollation FROM pg_type at WHERE at.oid = a.atttypid)
WHERE t.typtype = 'c' AND a.attnum > 0 AND NOT a.attisdropped
  AND ` + schemaFilter + `
ORDER BY n.nspname, t.typname, a.attnum`)

var domainsQuery = trim(`
SELECT n.nspname, t.typname, pg_get_userbyid(t.typowner), format_type(t.typbasetype, t.typtypmod),
       t.typnotnull, t.typdefault, co.collname, obj_description(t.oid, 'pg_type'), t.typacl::text
FROM pg_type t
JOIN pg_namespace n ON n.oid = t.typnamespace
LEFT JOIN pg_collation co ON co.oid = t.typcollation
  AND t.typcollation <> (SELECT bt.typcollation FROM pg_type bt WHERE bt.oid = t.typbasetype)
WHERE t.typtype = 'd'
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_type", "t.oid") + `
ORDER BY n.nspname, t.typname`)

var domainConstraintsQuery = trim(`
SELECT n.nspname, t.typname, con.conname, con.contype::text, pg_get_constraintdef(con.oid)
FROM pg_constraint con
JOIN pg_type t ON t.oid = con.contypid
JOIN pg_namespace n ON n.oid = t.typnamespace
WHERE t.typtype = 'd' AND con.contype = 'c'
  AND ` + schemaFilter + `
ORDER BY n.nspname, t.typname, con.conname`)

var sequencesQuery = trim(`
SELECT n.nspname, c.relname, pg_get_userbyid(c.relowner), format_type(s.seqtypid, NULL),
       s.seqstart, s.seqincrement, s.seqmin, s.seqmax, s.seqcache, s.seqcycle,
       obj_description(c.oid, 'pg_class'), c.relacl::text
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
JOIN pg_sequence s ON s.seqrelid = c.oid
WHERE c.relkind = 'S'
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
  AND NOT EXISTS (
    SELECT 1 FROM pg_depend idep
    WHERE idep.classid = 'pg_class'::regclass AND idep.objid = c.oid AND idep.deptype = 'i')
ORDER BY n.nspname, c.relname`)

// Before pg_sequence the parameters live in the sequence relation itself
// and are read one sequence at a time.
var legacySequencesQuery = trim(`
SELECT n.nspname, c.relname, pg_get_userbyid(c.relowner),
       obj_description(c.oid, 'pg_class'), c.relacl::text
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'S'
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname`)

const legacySequenceParamsQuery = `SELECT start_value, increment_by, min_value, max_value, cache_value, is_cycled FROM %s`

func functionsQuery(version int) string {
	kind, filter := `'f'`, `NOT p.proisagg AND NOT p.proiswindow`
	if version >= versionProkind {
		kind, filter = `p.prokind::text`, `p.prokind IN ('f', 'p')`
	}
	return trim(`
SELECT n.nspname, p.proname, pg_get_function_identity_arguments(p.oid), ` + kind + `,
       pg_get_userbyid(p.proowner), COALESCE(pg_get_function_result(p.oid), ''), l.lanname, p.prosrc,
       p.provolatile::text, p.proisstrict, p.prosecdef, p.proleakproof, p.proparallel::text,
       p.procost, p.prorows, pg_get_functiondef(p.oid), ` + optionList("p.proconfig") + `,
       obj_description(p.oid, 'pg_proc'), p.proacl::text
FROM pg_proc p
JOIN pg_namespace n ON n.oid = p.pronamespace
JOIN pg_language l ON l.oid = p.prolang
WHERE ` + filter + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_proc", "p.oid") + `
ORDER BY n.nspname, p.proname, pg_get_function_identity_arguments(p.oid) COLLATE "C"`)
}

func tablesQuery(version int) string {
	partition := `NULL::text`
	if version >= versionPartitioning {
		partition = `CASE WHEN c.relkind = 'p' THEN pg_get_partkeydef(c.oid) END`
	}
	return trim(`
SELECT n.nspname, c.relname, pg_get_userbyid(c.relowner), c.relpersistence = 'u', ` + partition + `,
       c.relrowsecurity, ` + optionList("c.reloptions") + `, obj_description(c.oid, 'pg_class'), c.relacl::text
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE ` + tableKinds(version) + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname`)
}

func columnsQuery(version int) string {
	identity, generated := `''`, `false`
	if version >= versionIdentity {
		identity = `a.attidentity::text`
	}
	if version >= versionGenerated {
		generated = `a.attgenerated = 's'`
	}
	return trim(`
SELECT n.nspname, c.relname, a.attname, a.attnum, format_type(a.atttypid, a.atttypmod), a.attnotnull,
       pg_get_expr(ad.adbin, ad.adrelid), co.collname, ` + identity + `, ` + generated + `,
       ` + optionList("a.attoptions") + `, col_description(c.oid, a.attnum), a.attacl::text
FROM pg_attribute a
JOIN pg_class c ON c.oid = a.attrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
LEFT JOIN pg_attrdef ad ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
LEFT JOIN pg_collation co ON co.oid = a.attcollation
  AND a.attcollation <> (SELECT at.typcollation FROM pg_type at WHERE at.oid = a.atttypid)
WHERE a.attnum > 0 AND NOT a.attisdropped
  AND ` + tableKinds(version) + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname, a.attname`)
}

func constraintsQuery(version int) string {
	return trim(`
SELECT n.nspname, c.relname, con.conname, con.contype::text, pg_get_constraintdef(con.oid)
FROM pg_constraint con
JOIN pg_class c ON c.oid = con.conrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE con.contype IN ('p', 'u', 'c', 'f', 'x') AND con.conislocal
  AND ` + tableKinds(version) + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname, con.conname`)
}

func viewsQuery(relkind string) string {
	return trim(`
SELECT n.nspname, c.relname, pg_get_userbyid(c.relowner), pg_get_viewdef(c.oid),
       ` + optionList("c.reloptions") + `, obj_description(c.oid, 'pg_class'), c.relacl::text
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = '` + relkind + `'
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname`)
}

func indexesQuery(version int) string {
	partition := ``
	if version >= versionPartitionIndex {
		partition = `
  AND NOT c.relispartition`
	}
	return trim(`
SELECT n.nspname, t.relname, c.relname, pg_get_indexdef(i.indexrelid),
       ` + optionList("c.reloptions") + `, obj_description(c.oid, 'pg_class')
FROM pg_index i
JOIN pg_class c ON c.oid = i.indexrelid
JOIN pg_class t ON t.oid = i.indrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE t.relkind IN ('r', 'p', 'm')
  AND NOT EXISTS (
    SELECT 1 FROM pg_constraint con
    WHERE con.conindid = i.indexrelid AND con.contype IN ('p', 'u', 'x'))` + partition + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "t.oid") + `
ORDER BY n.nspname, c.relname`)
}

func triggersQuery(version int) string {
	parent := ``
	if version >= versionTriggerParent {
		parent = `
  AND t.tgparentid = 0`
	}
	return trim(`
SELECT n.nspname, c.relname, t.tgname, pg_get_triggerdef(t.oid), t.tgenabled::text,
       obj_description(t.oid, 'pg_trigger')
FROM pg_trigger t
JOIN pg_class c ON c.oid = t.tgrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE NOT t.tgisinternal` + parent + `
  AND ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname, t.tgname`)
}

func policiesQuery(version int) string {
	permissive := `true`
	if version >= versionPermissivePolicy {
		permissive = `p.polpermissive`
	}
	return trim(`
SELECT n.nspname, c.relname, p.polname, p.polcmd::text, ` + permissive + `,
       ARRAY(
         SELECT r.rolname FROM (
           SELECT CASE WHEN ro = 0 THEN 'public' ELSE pg_get_userbyid(ro)::text END AS rolname
           FROM unnest(p.polroles) AS ro) r
         ORDER BY r.rolname COLLATE "C")::text,
       pg_get_expr(p.polqual, p.polrelid), pg_get_expr(p.polwithcheck, p.polrelid),
       obj_description(p.oid, 'pg_policy')
FROM pg_policy p
JOIN pg_class c ON c.oid = p.polrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE ` + schemaFilter + `
  AND ` + notExtensionMember("pg_class", "c.oid") + `
ORDER BY n.nspname, c.relname, p.polname`)
}

// Event triggers are not schema scoped and take no filter arguments.
var eventTriggersQuery = trim(`
SELECT e.evtname, e.evtevent, pg_get_userbyid(e.evtowner),
       quote_ident(pn.nspname) || '.' || quote_ident(p.proname), e.evtenabled::text,
       e.evttags::text, obj_description(e.oid, 'pg_event_trigger')
FROM pg_event_trigger e
JOIN pg_proc p ON p.oid = e.evtfoid
JOIN pg_namespace pn ON pn.oid = p.pronamespace
WHERE ` + notExtensionMember("pg_event_trigger", "e.oid") + `
ORDER BY e.evtname`)
